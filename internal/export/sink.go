package export

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mktintel/dashboard-go/internal/config"
	"github.com/mktintel/dashboard-go/internal/models"
)

// HTTPClient is the minimal client surface, swappable in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sink pushes combined metrics to a downstream BI endpoint. Payloads are
// signed with HMAC-SHA256 over the body so the receiver can verify origin.
type Sink struct {
	url    string
	secret string
	c      HTTPClient
}

func NewSink(cfg config.SinkConfig, c HTTPClient) *Sink {
	return &Sink{url: cfg.URL, secret: cfg.Secret, c: c}
}

func (s *Sink) Configured() bool { return s.url != "" && s.secret != "" }

// Push sends the rows as a JSON array and returns how many were sent.
func (s *Sink) Push(ctx context.Context, rows []models.CombinedRow) (int, error) {
	if !s.Configured() {
		return 0, errors.New("sink not configured")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return 0, err
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sig)

	resp, err := s.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("sink returned %d", resp.StatusCode)
	}
	return len(rows), nil
}
