package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/voidshard/tally/pkg/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// from https://github.com/elastic/go-elasticsearch/blob/master/_examples/bulk/indexer.go

const (
	esIndex = "tally"
	esFlush = 2048

	// largest page a plain search returns
	// TODO: page with search_after once a ledger can outgrow this
	esMaxRead = 10000

	envEsAddr = "ELASTICSEARCH_SERVICE_HOST"
	envEsPort = "ELASTICSEARCH_SERVICE_PORT"
)

// check it meets the interface
var _ Store = &ElasticsearchV8{}

// esDoc is a row as indexed, position keeps the ledger order
type esDoc struct {
	Position    int    `json:"position"`
	ID          string `json:"transaction_id"`
	Date        string `json:"date"`
	CustomerID  string `json:"customer_id"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func newESDoc(pos int, r domain.Row) *esDoc {
	return &esDoc{
		Position:    pos,
		ID:          r[domain.ColumnID],
		Date:        r[domain.ColumnDate],
		CustomerID:  r[domain.ColumnCustomer],
		Amount:      r[domain.ColumnAmount],
		Type:        r[domain.ColumnType],
		Description: r[domain.ColumnDescription],
	}
}

func (d *esDoc) row() domain.Row {
	return domain.RowFromValues([]string{d.ID, d.Date, d.CustomerID, d.Amount, d.Type, d.Description})
}

type esSearchReply struct {
	Hits struct {
		Hits []struct {
			Source esDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type ElasticsearchV8 struct {
	addresses []string
}

// NewElasticsearchV8 returns a store on the given nodes, falling back on
// ELASTICSEARCH_SERVICE_HOST / ELASTICSEARCH_SERVICE_PORT.
func NewElasticsearchV8(urls ...string) *ElasticsearchV8 {
	addrs := []string{}
	for _, u := range urls {
		if u != "" {
			addrs = append(addrs, u)
		}
	}

	if len(addrs) == 0 {
		address := os.Getenv(envEsAddr)
		port := os.Getenv(envEsPort)
		if port == "" {
			port = "9200" // default port
		}
		if address == "" {
			address = "localhost" // default address
		}
		addrs = []string{fmt.Sprintf("http://%s:%s", address, port)}
	}

	return &ElasticsearchV8{addresses: addrs}
}

func (e *ElasticsearchV8) client() (*elasticsearch.Client, error) {
	retryBackoff := backoff.NewExponentialBackOff()

	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: e.addresses,

		// Retry on 429 TooManyRequests statuses
		RetryOnStatus: []int{502, 503, 504, 429},

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},

		MaxRetries: 5,
	})
}

func (e *ElasticsearchV8) Read(ctx context.Context) ([]domain.Row, error) {
	es, err := e.client()
	if err != nil {
		return nil, err
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(esIndex),
		es.Search.WithSize(esMaxRead),
		es.Search.WithSort("position:asc"),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: index %s", ErrNotFound, esIndex)
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search failed: %s (%s)", res.Status(), string(body))
	}

	reply := &esSearchReply{}
	err = json.NewDecoder(res.Body).Decode(reply)
	if err != nil {
		return nil, err
	}

	rows := []domain.Row{}
	for _, hit := range reply.Hits.Hits {
		rows = append(rows, hit.Source.row())
	}
	return rows, nil
}

// Write indexes every row under its transaction id, then drops any document
// whose id is no longer in the set.
func (e *ElasticsearchV8) Write(ctx context.Context, rows []domain.Row) error {
	es, err := e.client()
	if err != nil {
		return err
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         esIndex,
		FlushBytes:    esFlush,
		Client:        es,
		NumWorkers:    4,
		FlushInterval: 10 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return err
	}

	res, err := es.Indices.Create(esIndex, es.Indices.Create.WithContext(ctx))
	if err != nil {
		log.Warn("attempted to make index", "index", esIndex, "err", err)
	} else {
		res.Body.Close()
	}

	ids := []string{}
	for pos, r := range rows {
		data, err := json.Marshal(newESDoc(pos, r))
		if err != nil {
			return err
		}
		ids = append(ids, r.ID())

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: r.ID(),
				Body:       bytes.NewReader(data),

				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					if err != nil {
						log.Error("failed to index transaction", "id", item.DocumentID, "err", err)
					} else {
						log.Error("failed to index transaction", "id", item.DocumentID, "type", res.Error.Type, "reason", res.Error.Reason)
					}
				},
			},
		)
		if err != nil {
			return err
		}
	}

	err = bi.Close(ctx)
	if err != nil {
		return err
	}

	biStats := bi.Stats()
	if biStats.NumFailed > 0 {
		return fmt.Errorf("failed indexing %d of %d transactions", int64(biStats.NumFailed), len(rows))
	}
	log.Debug("indexed transactions", "count", int64(biStats.NumFlushed))

	return e.deleteOthers(ctx, es, ids)
}

func (e *ElasticsearchV8) deleteOthers(ctx context.Context, es *elasticsearch.Client, keep []string) error {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": map[string]interface{}{
					"ids": map[string]interface{}{"values": keep},
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return err
	}

	res, err := es.DeleteByQuery(
		[]string{esIndex},
		bytes.NewReader(body),
		es.DeleteByQuery.WithContext(ctx),
		es.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to remove stale transactions: %s (%s)", res.Status(), string(data))
	}
	return nil
}
