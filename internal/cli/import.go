package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"ecocharge/internal/core"
)

// ErrEmptyImport is returned for a file without sessions.
var ErrEmptyImport = errors.New("import file contains no sessions")

// importFile is the YAML layout accepted by ReadImportFile:
//
//	sessions:
//	  - provider: ZES
//	    date: "2024-05-01"
//	    durationMinutes: 45
//	    pricePerKwh: 8.5
//	    totalKwh: 30
//
// totalCost may be given; when absent it is price times energy.
// A bare top-level list of sessions is accepted too.
type importFile struct {
	Sessions []core.ImportedSession `yaml:"sessions"`
}

// ReadImportFile loads and prepares the sessions listed in a YAML file.
func ReadImportFile(path string) ([]core.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return ParseImport(bytes.NewReader(data))
}

// ParseImport decodes YAML sessions and runs core.PrepareBatch over them.
func ParseImport(r io.Reader) ([]core.Session, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyImport
		}
		return nil, fmt.Errorf("parse import file: %w", err)
	}

	var sessions []core.ImportedSession
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&sessions); err != nil {
			return nil, fmt.Errorf("parse import file: %w", err)
		}
	default:
		var f importFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse import file: %w", err)
		}
		sessions = f.Sessions
	}

	if len(sessions) == 0 {
		return nil, ErrEmptyImport
	}
	return core.PrepareBatch(sessions)
}
