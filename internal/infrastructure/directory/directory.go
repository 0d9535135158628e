// Package directory keeps a searchable Elasticsearch view of accounts.
// The index is written only by the directory worker from account events;
// the API reads it through Search.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/events"
)

const (
	DefaultIndex      = "users"
	DefaultSearchSize = 10
	MaxSearchSize     = 50

	requestTimeout = 3 * time.Second
)

// ErrDisabled is returned by Search when no cluster is configured.
var ErrDisabled = errors.New("user directory is not configured")

// Document is the indexed shape of an account, keyed by user id.
type Document struct {
	ID        string     `json:"id"`
	Login     string     `json:"login"`
	Name      string     `json:"name"`
	Gender    string     `json:"gender"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Admin     bool       `json:"admin"`
	Active    bool       `json:"active"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func documentFor(ev events.AccountEvent) (Document, error) {
	if ev.Profile == nil {
		return Document{}, fmt.Errorf("event %s for %s carries no profile", ev.Type, ev.UserID)
	}
	p := ev.Profile
	return Document{
		ID:        ev.UserID,
		Login:     p.Login,
		Name:      p.Name,
		Gender:    p.Gender,
		Birthday:  p.Birthday,
		Admin:     p.Admin,
		Active:    p.Active,
		CreatedOn: p.CreatedOn,
		UpdatedAt: ev.OccurredAt,
	}, nil
}

type Directory struct {
	es     *elasticsearch.Client
	index  string
	logger logrus.FieldLogger
}

// New returns a directory over es. A nil client yields a directory whose
// Search reports ErrDisabled.
func New(es *elasticsearch.Client, index string, logger logrus.FieldLogger) *Directory {
	if index == "" {
		index = DefaultIndex
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Directory{es: es, index: index, logger: logger}
}

func (d *Directory) Enabled() bool { return d != nil && d.es != nil }

// Apply projects one account event onto the index. Password changes do not
// touch indexed fields and are skipped.
func (d *Directory) Apply(ctx context.Context, ev events.AccountEvent) error {
	if !d.Enabled() {
		return ErrDisabled
	}
	switch ev.Type {
	case events.TypePasswordUpdated:
		return nil
	case events.TypeDeleted:
		return d.remove(ctx, ev.UserID)
	default:
		doc, err := documentFor(ev)
		if err != nil {
			return err
		}
		return d.upsert(ctx, doc)
	}
}

func (d *Directory) upsert(ctx context.Context, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: d.index, DocumentID: doc.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, d.es)
	if err != nil {
		return fmt.Errorf("es index %s: %w", doc.ID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", doc.ID, res.Status())
	}
	return nil
}

func (d *Directory) remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: d.index, DocumentID: id}
	res, err := req.Do(c, d.es)
	if err != nil {
		return fmt.Errorf("es delete %s: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()
	// already gone is fine, the worker may see a delete twice
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"login^2", "name"},
			},
		},
		"size": size,
	}
}

func clampSize(size int) int {
	if size <= 0 || size > MaxSearchSize {
		return DefaultSearchSize
	}
	return size
}

// Search runs a multi_match query on login and name.
func (d *Directory) Search(ctx context.Context, q string, size int) ([]Document, error) {
	if !d.Enabled() {
		return nil, ErrDisabled
	}
	b, err := json.Marshal(searchQuery(q, clampSize(size)))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := d.es.Search(
		d.es.Search.WithContext(c),
		d.es.Search.WithIndex(d.index),
		d.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		d.logger.WithField("status", res.Status()).Warn("es search response error")
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

	out := make([]Document, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		doc := h.Source
		if doc.ID == "" {
			doc.ID = h.ID
		}
		out = append(out, doc)
	}
	return out, nil
}
