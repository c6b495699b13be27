// Package googlesheets implements spreadsheet.Store against the Google
// Sheets v4 values API over plain HTTP, authenticated with a service-account
// token source.
package googlesheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/universitas/manuales-backend/internal/domain"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com/v4"
	scope          = "https://www.googleapis.com/auth/spreadsheets"

	// The backing API enforces no client-side deadline of its own, so every
	// call gets one here.
	callTimeout = 15 * time.Second
)

type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string

	// sheet title -> numeric sheet id, resolved lazily for DeleteRow.
	// Guarded by mu: deletions run concurrently from request handlers.
	mu       sync.Mutex
	sheetIDs map[string]int64
}

// New builds a client from a service-account key file (the standard
// GOOGLE_APPLICATION_CREDENTIALS JSON).
func New(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	key, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(key, scope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &Client{
		httpClient:    cfg.Client(ctx),
		baseURL:       defaultBaseURL,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// NewWithHTTPClient is used by tests to point the client at a stub server.
func NewWithHTTPClient(hc *http.Client, baseURL, spreadsheetID string) *Client {
	return &Client{
		httpClient:    hc,
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}
}

type valueRange struct {
	Values [][]string `json:"values"`
}

func (c *Client) GetRange(ctx context.Context, sheet, ref string) ([][]string, error) {
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeName(sheet, ref)))

	var out valueRange
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

func (c *Client) AppendRow(ctx context.Context, sheet string, values []string) error {
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.baseURL, c.spreadsheetID, url.PathEscape(sheet))

	body := valueRange{Values: [][]string{values}}
	return c.do(ctx, http.MethodPost, u, body, nil)
}

func (c *Client) UpdateCell(ctx context.Context, sheet, cell, value string) error {
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeName(sheet, cell)))

	body := valueRange{Values: [][]string{{value}}}
	return c.do(ctx, http.MethodPut, u, body, nil)
}

// DeleteRow removes a row via batchUpdate/deleteDimension, which needs the
// numeric sheet id rather than the title.
func (c *Client) DeleteRow(ctx context.Context, sheet string, row int) error {
	sheetID, err := c.resolveSheetID(ctx, sheet)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/spreadsheets/%s:batchUpdate", c.baseURL, c.spreadsheetID)
	body := map[string]any{
		"requests": []any{
			map[string]any{
				"deleteDimension": map[string]any{
					"range": map[string]any{
						"sheetId":    sheetID,
						"dimension":  "ROWS",
						"startIndex": row - 1, // API indices are 0-based
						"endIndex":   row,
					},
				},
			},
		},
	}
	return c.do(ctx, http.MethodPost, u, body, nil)
}

func (c *Client) resolveSheetID(ctx context.Context, sheet string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.sheetIDs[sheet]; ok {
		return id, nil
	}

	u := fmt.Sprintf("%s/spreadsheets/%s?fields=sheets.properties", c.baseURL, c.spreadsheetID)
	var meta struct {
		Sheets []struct {
			Properties struct {
				SheetID int64  `json:"sheetId"`
				Title   string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.do(ctx, http.MethodGet, u, nil, &meta); err != nil {
		return 0, err
	}
	for _, s := range meta.Sheets {
		c.sheetIDs[s.Properties.Title] = s.Properties.SheetID
	}
	id, ok := c.sheetIDs[sheet]
	if !ok {
		return 0, domain.ErrStoreUnavailable(fmt.Errorf("sheet %q not found in spreadsheet", sheet))
	}
	return id, nil
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return domain.ErrInternal(err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return domain.ErrInternal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ErrStoreUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.ErrStoreUnavailable(fmt.Errorf("sheets api %s: %s", resp.Status, string(msg)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.ErrStoreUnavailable(err)
		}
	}
	return nil
}

func rangeName(sheet, ref string) string {
	if ref == "" {
		return sheet
	}
	return sheet + "!" + ref
}
