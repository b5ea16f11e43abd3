package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"ecotrack/internal/core"
	applog "ecotrack/internal/log"
	"ecotrack/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the tab used when none is configured.
const DefaultSheetName = "Activities"

var header = []any{"Date", "Category", "Description", "Impact"}

var errNotInitialized = errors.New("sheets service not initialized")

var _ store.Store = (*Client)(nil)

// Client stores the collection in one sheet tab: a header row followed by
// one row per activity in columns A to D.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
	// rows written by the last Load or Save, including the header; a shorter
	// collection overwrites the leftovers with blank cells.
	lastRows int
}

// Options configures a Client.
type Options struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
	Logger             *applog.Logger
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	c := newClient(nil, spreadsheetID, sheetName, opts.Logger)
	svc, err := newSheetsService(ctx, opts, c.logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	c.svc = svc
	return c, nil
}

func newClient(svc *gsheet.Service, spreadsheetID, sheetName string, logger *applog.Logger) *Client {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(applog.ComponentSheets),
	}
}

// newSheetsService builds the API service from inline JSON, a credentials
// file, or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func newSheetsService(ctx context.Context, opts Options, logger *applog.Logger) (*gsheet.Service, error) {
	credentialsJSON, err := readCredentials(opts)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func readCredentials(opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.ServiceAccountJSON)
	file := strings.TrimSpace(opts.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A:D", c.sheetName)
}

// Load implements store.Loader
func (c *Client) Load(ctx context.Context) ([]core.Activity, error) {
	rng := c.dataRange()
	if c.svc == nil {
		return nil, &store.CorruptError{Location: rng, Err: errNotInitialized}
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, &store.CorruptError{Location: rng, Err: fmt.Errorf("read %s: %w", rng, err)}
	}

	acts, err := parseRows(resp.Values)
	if err != nil {
		return nil, &store.CorruptError{Location: rng, Err: err}
	}
	c.lastRows = len(resp.Values)

	c.logger.DebugContext(ctx, "Activities loaded from Google Sheets",
		append(applog.NewFields().WithOperation(applog.OpLoad).WithCount(len(acts)).ToSlice(), "range", rng)...)
	return acts, nil
}

// Save implements store.Saver. All rows go out in a single values update so
// the sheet never holds half of a collection.
func (c *Client) Save(ctx context.Context, activities []core.Activity) error {
	if c.svc == nil {
		return &store.WriteError{Location: c.dataRange(), Err: errNotInitialized}
	}
	values := buildRows(activities, c.lastRows)
	rng := fmt.Sprintf("%s!A1:D%d", c.sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return &store.WriteError{Location: rng, Err: fmt.Errorf("update %s: %w", rng, err)}
	}
	c.lastRows = len(activities) + 1

	c.logger.DebugContext(ctx, "Activities saved to Google Sheets",
		append(applog.NewFields().WithOperation(applog.OpSave).WithCount(len(activities)).ToSlice(), "range", rng)...)
	return nil
}
