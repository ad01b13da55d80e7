package export

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktintel/dashboard-go/internal/config"
	"github.com/mktintel/dashboard-go/internal/models"
)

func TestSinkPushSignsPayload(t *testing.T) {
	const secret = "s3cret"
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSink(config.SinkConfig{URL: srv.URL, Secret: secret}, srv.Client())
	rows := []models.CombinedRow{{Date: "2024-03-04", TotalRevenue: 8000, Spend: 200}}

	n, err := s.Push(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(gotBody)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSig)

	var decoded []models.CombinedRow
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "2024-03-04", decoded[0].Date)
}

func TestSinkPushRejectedUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSink(config.SinkConfig{URL: srv.URL, Secret: "x"}, srv.Client())
	_, err := s.Push(context.Background(), []models.CombinedRow{{Date: "2024-03-04"}})
	assert.ErrorContains(t, err, "sink returned 403")
}

func TestSinkPushUnconfigured(t *testing.T) {
	s := NewSink(config.SinkConfig{}, http.DefaultClient)
	assert.False(t, s.Configured())

	_, err := s.Push(context.Background(), []models.CombinedRow{{Date: "2024-03-04"}})
	assert.ErrorContains(t, err, "sink not configured")
}

func TestSinkPushNoRows(t *testing.T) {
	s := NewSink(config.SinkConfig{URL: "http://example.invalid", Secret: "x"}, http.DefaultClient)
	n, err := s.Push(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
