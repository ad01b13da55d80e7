package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mktintel/dashboard-go/internal/utils"
)

// HTTPClient is the minimal client surface, swappable in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// fetchFeed downloads a feed body over HTTP, retrying transient failures and
// non-2xx responses with exponential backoff.
func fetchFeed(ctx context.Context, c HTTPClient, url string, bo utils.Backoff) ([]byte, error) {
	if url == "" {
		return nil, errors.New("empty feed url")
	}
	var body []byte
	err := bo.Do(ctx, func(int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("feed %s: non-2xx %d body=%s", url, resp.StatusCode, string(b))
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	return body, err
}
