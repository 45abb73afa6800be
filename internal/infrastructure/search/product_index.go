package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// ProductIndex keeps products searchable in Elasticsearch. A nil client
// turns every call into a no-op so the service runs without a cluster.
type ProductIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewProductIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ProductIndex {
	return &ProductIndex{es: es, index: index, logger: logger}
}

func (p *ProductIndex) enabled() bool {
	return p != nil && p.es != nil && p.index != ""
}

type productDoc struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Featured    bool   `json:"featured"`
	UpdatedAt   string `json:"updated_at"`
}

func toDoc(pr entity.Product) productDoc {
	return productDoc{
		ID:          pr.ID,
		Name:        pr.Name,
		Description: pr.Description,
		Category:    pr.Category,
		Price:       pr.Price.StringFixed(2),
		Featured:    pr.Featured,
		UpdatedAt:   pr.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (p *ProductIndex) Index(ctx context.Context, products ...entity.Product) error {
	if !p.enabled() {
		return nil
	}
	for _, pr := range products {
		b, err := json.Marshal(toDoc(pr))
		if err != nil {
			return err
		}
		req := esapi.IndexRequest{
			Index:      p.index,
			DocumentID: strconv.FormatInt(pr.ID, 10),
			Body:       bytes.NewReader(b),
			Refresh:    "false",
		}
		c, cancel := context.WithTimeout(ctx, requestTimeout)
		res, err := req.Do(c, p.es)
		cancel()
		if err != nil {
			return fmt.Errorf("index product %d: %w", pr.ID, err)
		}
		_ = res.Body.Close()
		if res.IsError() {
			if p.logger != nil {
				p.logger.WithField("status", res.Status()).WithField("product_id", pr.ID).Warn("es index response error")
			}
			return fmt.Errorf("index product %d: %s", pr.ID, res.Status())
		}
	}
	return nil
}

func buildQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "category^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"size":    size,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func (p *ProductIndex) Search(ctx context.Context, q string, size int) ([]int64, error) {
	if !p.enabled() {
		return []int64{}, nil
	}
	b, err := json.Marshal(buildQuery(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := p.es.Search(
		p.es.Search.WithContext(c),
		p.es.Search.WithIndex(p.index),
		p.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return hitIDs(parsed), nil
}

func hitIDs(r searchResponse) []int64 {
	ids := make([]int64, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

var _ repository.ProductSearch = (*ProductIndex)(nil)
