package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hualinpp/threadhub/domain"
)

type searchHits struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *searchIndex) query(ctx context.Context, index, keyword string, fields []string, from, size int64) (searchHits, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  keyword,
				"fields": fields,
			},
		},
		"from": from,
		"size": size,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return searchHits{}, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return searchHits{}, err
	}
	defer closeBody(res)
	if res.IsError() {
		return searchHits{}, fmt.Errorf("search %q: %s", index, res.Status())
	}

	var hits searchHits
	if err := json.NewDecoder(res.Body).Decode(&hits); err != nil {
		return searchHits{}, err
	}
	return hits, nil
}

func (s *searchIndex) SearchPosts(ctx context.Context, query string, from, size int64) ([]domain.PostDocument, int64, error) {
	fields := []string{"content", "content.english", "userName"}
	hits, err := s.query(ctx, domain.IndexPosts, query, fields, from, size)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.PostDocument, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		var doc domain.PostDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		doc.ID = hit.ID
		res = append(res, doc)
	}
	return res, hits.Hits.Total.Value, nil
}

func (s *searchIndex) SearchUsers(ctx context.Context, query string, from, size int64) ([]domain.UserDocument, int64, error) {
	fields := []string{"userName", "userName.english", "accountName", "accountName.english", "bio", "bio.english"}
	hits, err := s.query(ctx, domain.IndexUsers, query, fields, from, size)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserDocument, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		var doc domain.UserDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		doc.ID = hit.ID
		res = append(res, doc)
	}
	return res, hits.Hits.Total.Value, nil
}
