package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Ruchi0214/Regexia/internal/domain"
	es "github.com/elastic/go-elasticsearch/v8"
)

// ResultDocument is the indexed form of a saved row.
type ResultDocument struct {
	RunID     string    `json:"run_id"`
	RowID     int       `json:"row_id"`
	Score     int       `json:"score"`
	Text      string    `json:"text"`
	IndexedAt time.Time `json:"indexed_at"`
}

// ResultIndexer writes saved results to one index.
type ResultIndexer struct {
	client *es.Client
	index  string
	now    func() time.Time
}

// NewResultIndexer creates an indexer for index.
func NewResultIndexer(client *es.Client, index string) *ResultIndexer {
	return &ResultIndexer{client: client, index: index, now: time.Now}
}

// Index returns the target index name.
func (i *ResultIndexer) Index() string {
	return i.index
}

// IndexResults bulk-indexes rows under runID. Document ids are run-scoped so a
// re-save of the same run overwrites rather than duplicates.
func (i *ResultIndexer) IndexResults(ctx context.Context, runID string, rows []domain.SavedResult) error {
	if len(rows) == 0 {
		return nil
	}

	indexedAt := i.now().UTC()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.index,
				"_id":    runID + "-" + strconv.Itoa(row.RowID),
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		doc := ResultDocument{RunID: runID, RowID: row.RowID, Score: row.Score, Text: row.Text, IndexedAt: indexedAt}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}

	res, err := i.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		i.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	var summary struct {
		Errors bool `json:"errors"`
	}
	if err = json.NewDecoder(res.Body).Decode(&summary); err != nil {
		return fmt.Errorf("error decoding bulk response: %w", err)
	}
	if summary.Errors {
		return fmt.Errorf("bulk indexing reported item failures for run %s", runID)
	}
	return nil
}

// TestConnection checks the cluster is reachable.
func (i *ResultIndexer) TestConnection(ctx context.Context) error {
	return ping(ctx, i.client)
}
