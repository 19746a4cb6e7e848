package service

import (
	"encoding/json"
	"log"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

// SearchService mirrors the product catalog into meilisearch. Indexing is
// best-effort: a failed sync is logged, not surfaced, and the database
// stays the source of truth.
type SearchService interface {
	IndexProduct(product *model.Product) error
	DeleteProduct(id string) error
	SearchProducts(query string, limit int64) ([]ProductDoc, error)
}

type ProductDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	Active      bool   `json:"active"`
	CreatedAt   int64  `json:"created_at"`
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	s.initIndex()
	return s
}

func (s *searchService) initIndex() {
	filterable := []string{"category", "active"}
	filterableInterface := make([]any, len(filterable))
	for i, v := range filterable {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("products").UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update products filterable attributes: %v", err)
	}

	sortable := []string{"price", "created_at"}
	if _, err := s.client.Index("products").UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update products sortable attributes: %v", err)
	}

	log.Println("Meilisearch product index initialized")
}

func (s *searchService) IndexProduct(product *model.Product) error {
	doc := ProductDoc{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		Active:      product.Active,
		CreatedAt:   product.CreatedAt.Unix(),
	}

	_, err := s.client.Index("products").AddDocuments([]ProductDoc{doc}, strPtr("id"))
	return err
}

func (s *searchService) DeleteProduct(id string) error {
	_, err := s.client.Index("products").DeleteDocument(id)
	return err
}

func (s *searchService) SearchProducts(query string, limit int64) ([]ProductDoc, error) {
	resp, err := s.client.Index("products").Search(query, &meilisearch.SearchRequest{
		Limit:  limit,
		Filter: "active = true",
	})
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON to decode the generic hits.
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}

	var docs []ProductDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func strPtr(s string) *string {
	return &s
}
