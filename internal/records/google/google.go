package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"ecocharge/internal/core"
	"ecocharge/internal/records"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ records.RecordStore = (*Client)(nil)

// Options configures the Sheets store.
type Options struct {
	SpreadsheetID   string
	SheetName       string // default "Sessions"
	CredentialsJSON string
	CredentialsFile string
}

// Client stores one session per row of a spreadsheet tab.
// Row 1 holds the header; column A holds the id.
// Writes locate rows by index, so every id scan and the mutation that
// follows it run under mu.
type Client struct {
	mu    sync.Mutex
	api   sheetAPI
	sheet string
}

// sheetAPI is the subset of the Sheets API the store uses.
type sheetAPI interface {
	Get(ctx context.Context, rng string) ([][]any, error)
	Append(ctx context.Context, rng string, rows [][]any) error
	DeleteRow(ctx context.Context, sheet string, rowIndex int64) error
}

// New creates a Sheets-backed store authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		opts.SheetName = "Sessions"
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	c := newClient(&serviceAPI{svc: svc, spreadsheetID: opts.SpreadsheetID}, opts.SheetName)
	if err := c.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(api sheetAPI, sheet string) *Client {
	return &Client{api: api, sheet: sheet}
}

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(opts.CredentialsJSON))
	if len(credentialsJSON) == 0 {
		file := strings.TrimSpace(opts.CredentialsFile)
		if file == "" {
			file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		}
		if file == "" {
			return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	}

	slog.InfoContext(ctx, "Creating Google Sheets service", "credentials_size", len(credentialsJSON))
	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
		goption.WithHTTPClient(newHTTPClientWithPooling()))
}

// newHTTPClientWithPooling returns a keep-alive client with bounded timeouts.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}

func (c *Client) ensureHeader(ctx context.Context) error {
	rows, err := c.api.Get(ctx, c.sheet+"!A1:G1")
	if err != nil {
		return fmt.Errorf("read header of %s: %w", c.sheet, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		return nil
	}
	if err := c.api.Append(ctx, c.sheet+"!A1:G1", [][]any{headerRow()}); err != nil {
		return fmt.Errorf("write header of %s: %w", c.sheet, err)
	}
	return nil
}

// ListAll reads every data row. Rows that cannot be parsed are skipped.
func (c *Client) ListAll(ctx context.Context) ([]core.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rng := c.sheet + "!A2:G"
	rows, err := c.api.Get(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", records.ErrStoreUnavailable, rng, err)
	}
	out := make([]core.Session, 0, len(rows))
	for i, row := range rows {
		s, err := parseRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed session row", "sheet", c.sheet, "row", i+2, "error", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Client) Insert(ctx context.Context, s core.Session) error {
	return c.InsertMany(ctx, []core.Session{s})
}

// InsertMany checks ids against column A, then appends all rows in one call.
func (c *Client) InsertMany(ctx context.Context, batch []core.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, err := c.ids(ctx)
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(batch))
	for _, s := range batch {
		if _, ok := ids[s.ID]; ok {
			return fmt.Errorf("%w: %s", records.ErrDuplicateID, s.ID)
		}
		ids[s.ID] = -1
		rows = append(rows, formatRow(s))
	}
	if err := c.api.Append(ctx, c.sheet+"!A:G", rows); err != nil {
		return fmt.Errorf("%w: append to %s: %w", records.ErrStoreUnavailable, c.sheet, err)
	}
	return nil
}

// Delete removes the row holding id.
func (c *Client) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, err := c.ids(ctx)
	if err != nil {
		return err
	}
	row, ok := ids[id]
	if !ok {
		return records.ErrNotFound
	}
	if err := c.api.DeleteRow(ctx, c.sheet, row); err != nil {
		return fmt.Errorf("%w: delete row %d of %s: %w", records.ErrStoreUnavailable, row, c.sheet, err)
	}
	return nil
}

// ids maps each stored id to its zero-based row index.
func (c *Client) ids(ctx context.Context) (map[string]int64, error) {
	rng := c.sheet + "!A:A"
	rows, err := c.api.Get(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", records.ErrStoreUnavailable, rng, err)
	}
	out := make(map[string]int64, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(fmt.Sprint(row[0]))
		if id != "" {
			out[id] = int64(i)
		}
	}
	return out, nil
}

// serviceAPI adapts *gsheet.Service to sheetAPI.
type serviceAPI struct {
	svc           *gsheet.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

func (a *serviceAPI) Get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (a *serviceAPI) Append(ctx context.Context, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

func (a *serviceAPI) DeleteRow(ctx context.Context, sheet string, rowIndex int64) error {
	sheetID, err := a.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{Range: &gsheet.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "ROWS",
			StartIndex: rowIndex,
			EndIndex:   rowIndex + 1,
		}},
	}}}
	_, err = a.svc.Spreadsheets.BatchUpdate(a.spreadsheetID, req).Context(ctx).Do()
	return err
}

func (a *serviceAPI) sheetID(ctx context.Context, title string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.sheetIDs[title]; ok {
		return id, nil
	}
	ss, err := a.svc.Spreadsheets.Get(a.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	if a.sheetIDs == nil {
		a.sheetIDs = make(map[string]int64)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			a.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := a.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("sheet %q not found", title)
	}
	return id, nil
}
