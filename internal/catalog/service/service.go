// Package service implements product search over the spreadsheet catalog.
package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"ruffo_chat_backend/internal/catalog/sheets"
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/platform/apperr"
	"ruffo_chat_backend/platform/logger"
)

const defaultMaxResults = 5

// RowSource supplies raw catalog rows. Satisfied by sheets.Client.
type RowSource interface {
	Rows(ctx context.Context) ([]sheets.Row, error)
}

// Service provides catalog search and lookup.
// The catalog has no stock column, so every product reports a large
// constant stock and availability is resolved at the counter.
type Service struct {
	source RowSource
	log    *logger.Logger
}

// New creates a new catalog service.
func New(source RowSource, log *logger.Logger) *Service {
	return &Service{source: source, log: log}
}

type scoredProduct struct {
	score   int
	product transport.Product
}

// Search ranks catalog rows against the query, optionally filtered by
// pet type, and returns at most maxResults products ordered by score
// descending. Source order breaks ties. Any catalog failure returns an
// empty result, never an error.
func (s *Service) Search(ctx context.Context, query, petType string, maxResults int) []transport.Product {
	rows, err := s.source.Rows(ctx)
	if err != nil {
		s.log.CatalogError("search", err)
		return []transport.Product{}
	}
	if len(rows) == 0 {
		s.log.Warn("no products found in sheet")
		return []transport.Product{}
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryWords := expandQueryWords(queryLower)

	normalizedPet := ""
	if petType != "" {
		normalizedPet = NormalizePetType(strings.ToLower(petType))
	}
	petFilterWords := petKeywords[normalizedPet]
	brands := petBrands[normalizedPet]

	scored := make([]scoredProduct, 0, len(rows))

	for _, row := range rows {
		descripcion := strings.ToLower(row["Descripcion"])
		marca := strings.ToLower(row["Marca"])
		familia := strings.ToLower(row["Familia"])
		linea := strings.ToLower(row["linea"])
		clave := strings.ToLower(row["Clave"])

		searchText := descripcion + " " + marca + " " + familia + " " + linea + " " + clave

		isForPet := false
		isForOtherPet := false

		if normalizedPet != "" {
			isForPet = containsAny(searchText, petFilterWords)

			// Products named only by brand still count for the pet.
			if !isForPet && len(brands) > 0 {
				isForPet = containsAny(marca, brands)
			}

			for otherPet, otherWords := range petKeywords {
				if otherPet == normalizedPet {
					continue
				}
				if containsAny(searchText, otherWords) {
					isForOtherPet = true
					break
				}
			}
			if !isForOtherPet {
				for otherPet, otherBrands := range petBrands {
					if otherPet == normalizedPet {
						continue
					}
					if containsAny(marca, otherBrands) {
						isForOtherPet = true
						break
					}
				}
			}

			// Clearly another pet's product: exclude outright.
			if isForOtherPet && !isForPet {
				continue
			}
		}

		score := 0
		if strings.Contains(searchText, queryLower) {
			score += 100
		}

		matchingWords := 0
		for _, word := range queryWords {
			if strings.Contains(searchText, word) {
				matchingWords++
			}
		}
		if matchingWords == 0 {
			continue
		}
		score += matchingWords * 20

		if containsAny(descripcion, queryWords) {
			score += 30
		}
		if normalizedPet != "" && isForPet {
			score += 50
		}
		if len(brands) > 0 && containsAny(marca, brands) {
			score += 40
		}
		if isForOtherPet {
			score -= 100
		}

		scored = append(scored, scoredProduct{score: score, product: rowToProduct(row)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	results := make([]transport.Product, 0, len(scored))
	for _, item := range scored {
		results = append(results, item.product)
	}

	s.log.Info("product search completed",
		"query", query,
		"pet_type", petType,
		"results_count", len(results))

	return results
}

// GetByID finds a product by its key or barcode.
func (s *Service) GetByID(ctx context.Context, productID string) (*transport.Product, error) {
	rows, err := s.source.Rows(ctx)
	if err != nil {
		s.log.CatalogError("get_by_id", err)
		return nil, apperr.Wrap(apperr.KindUpstream, "catalog unavailable", err)
	}

	for _, row := range rows {
		if row["Clave"] == productID || row["Codigo de barras"] == productID {
			product := rowToProduct(row)
			return &product, nil
		}
	}
	return nil, apperr.NotFound("product not found")
}

// ListByCategory returns products whose family or line contains the
// category, optionally filtered to one pet type.
func (s *Service) ListByCategory(ctx context.Context, category, petType string, maxResults int) []transport.Product {
	rows, err := s.source.Rows(ctx)
	if err != nil {
		s.log.CatalogError("list_by_category", err)
		return []transport.Product{}
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	categoryLower := strings.ToLower(category)
	var petFilterWords []string
	if petType != "" {
		petFilterWords = petKeywords[strings.ToLower(petType)]
	}

	results := make([]transport.Product, 0)
	for _, row := range rows {
		familia := strings.ToLower(row["Familia"])
		linea := strings.ToLower(row["linea"])

		if !strings.Contains(familia, categoryLower) && !strings.Contains(linea, categoryLower) {
			continue
		}

		if len(petFilterWords) > 0 {
			searchText := familia + " " + linea + " " + strings.ToLower(row["Descripcion"])
			if !containsAny(searchText, petFilterWords) {
				continue
			}
		}

		results = append(results, rowToProduct(row))
		if len(results) == maxResults {
			break
		}
	}

	return results
}

// expandQueryWords splits the query and expands each word longer than
// two characters with its product-type synonyms.
func expandQueryWords(queryLower string) []string {
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(queryLower) {
		if len([]rune(word)) <= 2 {
			continue
		}
		seen[word] = struct{}{}
		for productType, synonyms := range productTypeKeywords {
			if word == productType || contains(synonyms, word) {
				for _, synonym := range synonyms {
					seen[synonym] = struct{}{}
				}
			}
		}
	}

	words := make([]string, 0, len(seen))
	for word := range seen {
		words = append(words, word)
	}
	return words
}

func rowToProduct(row sheets.Row) transport.Product {
	return transport.Product{
		ID:          row["Clave"],
		Name:        row["Descripcion"],
		Category:    row["Familia"],
		Brand:       row["Marca"],
		Price:       parsePrice(row["Precio Publico"]),
		Stock:       999,
		Description: row["linea"] + " - " + row["Marca"],
		Unit:        unitOrDefault(row["Unidad"]),
		Barcode:     row["Codigo de barras"],
	}
}

// parsePrice strips currency formatting and parses the price.
// Malformed values parse as zero.
func parsePrice(value string) float64 {
	clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(value))
	if clean == "" {
		return 0
	}
	price, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return price
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "PZ"
	}
	return unit
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
