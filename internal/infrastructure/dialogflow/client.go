// Package dialogflow calls the Dialogflow CX detectIntent endpoint over plain
// HTTP, authenticated with a service-account token source.
package dialogflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/universitas/manuales-backend/internal/domain"
)

const (
	scope = "https://www.googleapis.com/auth/cloud-platform"

	callTimeout = 20 * time.Second
)

type Config struct {
	ProjectID    string
	Location     string
	AgentID      string
	LanguageCode string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        Config
}

// New builds a client from a service-account key file. The regional endpoint
// is derived from the agent location (global agents use the bare host).
func New(ctx context.Context, credentialsFile string, cfg Config) (*Client, error) {
	key, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(key, scope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "es"
	}

	host := "dialogflow.googleapis.com"
	if cfg.Location != "" && cfg.Location != "global" {
		host = cfg.Location + "-" + host
	}
	return &Client{
		httpClient: jwtCfg.Client(ctx),
		baseURL:    "https://" + host + "/v3",
		cfg:        cfg,
	}, nil
}

// NewWithHTTPClient is used by tests to point the client at a stub server.
func NewWithHTTPClient(hc *http.Client, baseURL string, cfg Config) *Client {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "es"
	}
	return &Client{httpClient: hc, baseURL: baseURL, cfg: cfg}
}

// DetectIntent sends one user utterance in the given session and returns the
// agent's reply, response messages joined in order.
func (c *Client) DetectIntent(ctx context.Context, sessionID, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/projects/%s/locations/%s/agents/%s/sessions/%s:detectIntent",
		c.baseURL, c.cfg.ProjectID, c.cfg.Location, c.cfg.AgentID, sessionID)

	body := map[string]any{
		"queryInput": map[string]any{
			"text":         map[string]any{"text": text},
			"languageCode": c.cfg.LanguageCode,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", domain.ErrInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.ErrAssistantUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", domain.ErrAssistantUnavailable(fmt.Errorf("dialogflow %s: %s", resp.Status, string(msg)))
	}

	var out struct {
		QueryResult struct {
			ResponseMessages []struct {
				Text struct {
					Text []string `json:"text"`
				} `json:"text"`
			} `json:"responseMessages"`
		} `json:"queryResult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", domain.ErrAssistantUnavailable(err)
	}

	var parts []string
	for _, m := range out.QueryResult.ResponseMessages {
		parts = append(parts, m.Text.Text...)
	}
	return strings.Join(parts, " "), nil
}
