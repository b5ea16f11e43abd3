package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ecotrack/internal/core"
	"ecotrack/internal/store"
)

// fakeSheet serves the two values endpoints the client uses and trims
// trailing empty cells and rows on read, like the real API.
type fakeSheet struct {
	mu   sync.Mutex
	rows [][]any
	puts int
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{
			"range":          "Activities!A1:D1000",
			"majorDimension": "ROWS",
			"values":         trimmed(f.rows),
		})
	case http.MethodPut:
		var vr struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for i, row := range vr.Values {
			if i < len(f.rows) {
				f.rows[i] = row
			} else {
				f.rows = append(f.rows, row)
			}
		}
		f.puts++
		json.NewEncoder(w).Encode(map[string]any{"updatedRows": len(vr.Values)})
	default:
		http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
	}
}

func trimmed(rows [][]any) [][]any {
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		out = append(out, row[:end])
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func newFakeClient(t *testing.T, fake *fakeSheet) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return newClient(svc, "sheet-id", DefaultSheetName, nil)
}

func TestNewMissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	require.Error(t, err)
	assert.Equal(t, "missing spreadsheet ID", err.Error())
}

func TestNewMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Options{SpreadsheetID: "id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}

func TestClientWithoutServiceFails(t *testing.T) {
	c := &Client{spreadsheetID: "id", sheetName: DefaultSheetName}

	_, err := c.Load(context.Background())
	var cerr *store.CorruptError
	require.ErrorAs(t, err, &cerr)

	err = c.Save(context.Background(), nil)
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)
}

func TestClientRoundTripAndShrink(t *testing.T) {
	fake := &fakeSheet{}
	c := newFakeClient(t, fake)
	ctx := context.Background()

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	acts := []core.Activity{
		{Date: "2024-01-01", Category: "Energy", Description: "Switched to LED bulbs", Impact: "Medium"},
		{Date: "2024-01-02", Category: "Water", Description: "Shorter shower", Impact: "Low"},
		{Date: "2024-01-03", Category: "Waste", Description: "Composted", Impact: "High"},
	}
	require.NoError(t, c.Save(ctx, acts))
	got, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, acts, got)

	require.NoError(t, c.Save(ctx, acts[:1]))
	got, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, acts[:1], got)
	assert.Equal(t, 2, fake.puts)
}

func TestClientLoadRejectsForeignSheet(t *testing.T) {
	fake := &fakeSheet{rows: [][]any{{"Month", "Day", "Description", "Amount"}}}
	c := newFakeClient(t, fake)

	_, err := c.Load(context.Background())
	var cerr *store.CorruptError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, strings.Contains(cerr.Error(), "unexpected header"))
}
