// Package upsell suggests complementary products for the cart.
package upsell

import (
	"context"
	"math/rand"
	"strings"

	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/platform/logger"
)

// complementRules maps a cart category to the categories worth
// suggesting alongside it.
var complementRules = map[string][]string{
	"alimento":   {"snacks", "vitaminas", "plato", "bebedero"},
	"snacks":     {"juguetes", "alimento", "premios"},
	"juguetes":   {"snacks", "accesorios", "cama"},
	"higiene":    {"shampoo", "cepillo", "toallas", "accesorios"},
	"salud":      {"vitaminas", "alimento", "suplementos"},
	"accesorios": {"juguetes", "cama", "plato"},
	"cama":       {"cobija", "juguetes", "accesorios"},
}

// Phrases use {current} and {suggestion} placeholders.
var phrases = []string{
	"¡Oye! Y ya que llevas {current}, ¿qué tal agregarle un {suggestion}? A los peludos les encanta 🐾",
	"Humano-amigo, te recomiendo mucho este {suggestion} para complementar. ¡Yo se lo daría a Ruffito! 🎸",
	"¿Sabías que el {suggestion} es el complemento perfecto? Muchos clientes lo llevan junto con {current}",
	"¡Rock on! 🤘 Para que tu peludo esté aún más feliz, checa este {suggestion}",
	"Este {suggestion} está increíble, ¡y hace match perfecto con lo que llevas!",
}

// Searcher is the slice of the catalog the upseller needs.
type Searcher interface {
	Search(ctx context.Context, query, petType string, maxResults int) []transport.Product
}

// Service generates upsell suggestions backed by the catalog.
type Service struct {
	catalog Searcher
	log     *logger.Logger
}

// NewService creates an upsell service.
func NewService(catalog Searcher, log *logger.Logger) *Service {
	return &Service{catalog: catalog, log: log}
}

// ShouldOffer decides whether to pitch a complement. At most one pitch
// per conversation.
func (s *Service) ShouldOffer(itemCount int, alreadyOffered bool, orderTotal float64) bool {
	if alreadyOffered {
		return false
	}
	if itemCount >= 1 {
		return true
	}
	return orderTotal < 300
}

// Suggestions finds complementary products for the given cart
// categories. Each complement category contributes at most one product.
func (s *Service) Suggestions(ctx context.Context, cartCategories []string, maxSuggestions int) []transport.Product {
	if len(cartCategories) == 0 || maxSuggestions <= 0 {
		return nil
	}

	matched := make([]string, 0, len(cartCategories))
	for _, category := range cartCategories {
		categoryLower := strings.ToLower(category)
		for key := range complementRules {
			if strings.Contains(categoryLower, key) {
				matched = append(matched, key)
				break
			}
		}
	}

	var suggestions []transport.Product
	seen := make(map[string]struct{})

	for _, category := range matched {
		for _, complement := range complementRules[category] {
			if _, ok := seen[complement]; ok {
				continue
			}

			products := s.catalog.Search(ctx, complement, "", 3)
			if len(products) > 0 {
				suggestions = append(suggestions, products[rand.Intn(len(products))])
				seen[complement] = struct{}{}
			}

			if len(suggestions) >= maxSuggestions {
				return suggestions
			}
		}
	}

	return suggestions
}

// Message renders one suggestion in Ruffo's voice.
func (s *Service) Message(currentProduct string, suggestion transport.Product) string {
	name := suggestion.Name
	if name == "" {
		name = "este producto"
	}

	phrase := phrases[rand.Intn(len(phrases))]
	return strings.NewReplacer(
		"{current}", currentProduct,
		"{suggestion}", name,
	).Replace(phrase)
}
