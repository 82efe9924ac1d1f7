package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Ruchi0214/Regexia/internal/domain"
	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func esResponse(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *es.Client {
	t.Helper()
	client, err := es.NewClient(es.Config{Addresses: []string{"http://es:9200"}, Transport: rt})
	require.NoError(t, err)
	return client
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"http://es:9200", "http://es:9200"},
		{"https://es:9200", "https://es:9200"},
		{"es:9200", "http://es:9200"},
		{"", "http://localhost:9200"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeURL(tt.input), tt.input)
	}
}

func TestResultIndexer_IndexResults(t *testing.T) {
	var lines []string
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		return esResponse(http.StatusOK, `{"took":1,"errors":false,"items":[]}`), nil
	})

	idx := NewResultIndexer(client, "regexia_results")
	idx.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	err := idx.IndexResults(context.Background(), "run-9", []domain.SavedResult{
		{RowID: 4, Score: 6, Text: "crisis..."},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var meta map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &meta))
	assert.Equal(t, "regexia_results", meta["index"]["_index"])
	assert.Equal(t, "run-9-4", meta["index"]["_id"])

	var doc ResultDocument
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
	assert.Equal(t, ResultDocument{
		RunID: "run-9", RowID: 4, Score: 6, Text: "crisis...",
		IndexedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, doc)
}

func TestResultIndexer_ItemFailures(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, `{"took":1,"errors":true,"items":[]}`), nil
	})

	err := NewResultIndexer(client, "idx").IndexResults(context.Background(), "run-1",
		[]domain.SavedResult{{RowID: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run-1")
}

func TestResultIndexer_EmptyIsNoop(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	require.NoError(t, NewResultIndexer(client, "idx").IndexResults(context.Background(), "run", nil))
}

func TestResultIndexer_TestConnection(t *testing.T) {
	status := http.StatusOK
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodHead, r.Method)
		return esResponse(status, ""), nil
	})
	idx := NewResultIndexer(client, "regexia_results")
	assert.Equal(t, "regexia_results", idx.Index())

	require.NoError(t, idx.TestConnection(context.Background()))

	status = http.StatusServiceUnavailable
	require.Error(t, idx.TestConnection(context.Background()))
}
