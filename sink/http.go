package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/weiihann/taipan/harness"
)

// HTTP posts each record as JSON to a results API. The API answers with
// the stored document, whose `_id` addresses the public result page.
type HTTP struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

// NewHTTP creates an HTTP sink posting to url.
func NewHTTP(url string, timeout time.Duration, logger *slog.Logger) *HTTP {
	return &HTTP{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Logger: logger.With(slog.String("sink", "http")),
	}
}

type submitResponse struct {
	ID string `json:"_id"`
}

func (h *HTTP) Send(ctx context.Context, r harness.Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post result: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if out.ID == "" {
		return fmt.Errorf("decode response: missing _id")
	}

	h.Logger.InfoContext(ctx, "result published",
		slog.String("kind", string(r.Kind)),
		slog.String("id", out.ID),
		slog.String("url", ViewURL(h.URL, out.ID)),
	)

	return nil
}

// ViewURL maps an API endpoint and document id to the page showing it:
// https://host/api/cpu-benchmarks becomes https://host/cpu-benchmarks/<id>.
func ViewURL(apiURL, id string) string {
	return strings.Replace(strings.TrimRight(apiURL, "/"), "/api/", "/", 1) + "/" + id
}
