// Package search mirrors events into Elasticsearch for free-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

const (
	requestTimeout = 3 * time.Second
	defaultSize    = 10
	maxSize        = 50
)

// Document is the indexed shape of an event.
type Document struct {
	entity.EventSummary
	OrganizerID string `json:"organizerId"`
}

type EventIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewEventIndex(es *elasticsearch.Client, index string) *EventIndex {
	return &EventIndex{es: es, index: index}
}

func (x *EventIndex) Index(ctx context.Context, e *entity.Event) error {
	b, err := json.Marshal(Document{EventSummary: e.Summary(), OrganizerID: e.OrganizerID})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: e.ID, Body: bytes.NewReader(b), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", e.ID, res.Status())
	}
	return nil
}

// Remove deletes the event document. A missing document is not an error.
func (x *EventIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over the text fields, title boosted.
func (x *EventIndex) Search(ctx context.Context, q string, size int) ([]entity.EventSummary, error) {
	if size <= 0 || size > maxSize {
		size = defaultSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "description", "location", "category", "ageGroup"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string   `json:"_id"`
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.EventSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		s := h.Source.EventSummary
		if s.ID == "" {
			s.ID = h.ID
		}
		out = append(out, s)
	}
	return out, nil
}

const mapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "organizerId": {"type": "keyword"},
      "title":       {"type": "text"},
      "description": {"type": "text"},
      "location":    {"type": "text"},
      "category":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "ageGroup":    {"type": "keyword"},
      "date":        {"type": "date"},
      "price":       {"type": "double"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *EventIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	if res.StatusCode != 404 {
		return fmt.Errorf("es exists %s: %s", x.index, res.Status())
	}

	res, err = esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(mapping)}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if !res.IsError() {
		return nil
	}
	var failure struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	_ = json.NewDecoder(res.Body).Decode(&failure)
	// a concurrent creator got there first
	if failure.Error.Type == "resource_already_exists_exception" {
		return nil
	}
	return fmt.Errorf("es create %s: %s: %s %s", x.index, res.Status(), failure.Error.Type, failure.Error.Reason)
}
