package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/hualinpp/threadhub/domain"
)

const pingTimeout = 5 * time.Second

type searchIndex struct {
	client *elasticsearch.Client
}

var _ domain.SearchIndex = (*searchIndex)(nil)

// NewSearchIndex wraps the elasticsearch client as the search index adapter.
func NewSearchIndex(client *elasticsearch.Client) *searchIndex {
	return &searchIndex{client}
}

func (s *searchIndex) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer closeBody(res)
	if res.IsError() {
		return fmt.Errorf("search index ping: %s", res.Status())
	}
	return nil
}

func (s *searchIndex) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.client.Indices.Exists(
		[]string{name},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	defer closeBody(res)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("index exists check for %q: %s", name, res.Status())
	}
}

func (s *searchIndex) CreateIndex(ctx context.Context, name string) error {
	res, err := s.client.Indices.Create(
		name,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(IndexBody(name))),
	)
	if err != nil {
		return err
	}
	defer closeBody(res)
	if res.IsError() {
		return fmt.Errorf("create index %q: %s", name, res.Status())
	}
	return nil
}

// BulkUpsert indexes the pairs in one bulk call. Per-item failures are
// logged and swallowed: the index is a derived view, availability wins over
// all-or-nothing here.
func (s *searchIndex) BulkUpsert(ctx context.Context, index string, docs []domain.BulkDoc, refresh bool) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, index, doc.ID)
		buf.WriteString(meta)
		buf.WriteByte('\n')

		body, err := json.Marshal(doc.Body)
		if err != nil {
			logrus.Warnf("failed to marshal document %s/%s for bulk: %v", index, doc.ID, err)
			continue
		}
		buf.Write(body)
		buf.WriteByte('\n')
	}

	opts := []func(*esapi.BulkRequest){s.client.Bulk.WithContext(ctx)}
	if refresh {
		opts = append(opts, s.client.Bulk.WithRefresh("true"))
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()), opts...)
	if err != nil {
		return err
	}
	defer closeBody(res)
	if res.IsError() {
		return fmt.Errorf("bulk upsert to %q: %s", index, res.Status())
	}

	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string          `json:"_id"`
			Status int             `json:"status"`
			Error  json.RawMessage `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		logrus.Warnf("failed to decode bulk response for %q: %v", index, err)
		return nil
	}
	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			for _, detail := range item {
				if detail.Status >= 300 {
					logrus.Warnf("bulk item %s/%s failed with status %d: %s",
						index, detail.ID, detail.Status, detail.Error)
				}
			}
		}
	}
	return nil
}

func (s *searchIndex) DeleteDoc(ctx context.Context, index, id string) error {
	res, err := s.client.Delete(index, id, s.client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer closeBody(res)
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document %s/%s: %s", index, id, res.Status())
	}
	return nil
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
