// Package conversation holds per-thread conversational state: the
// running memory the extractor maintains and the session stores that
// persist it between turns.
package conversation

import "strings"

// memorySize bounds the recent-message ring.
const memorySize = 5

// Memory is what the bot remembers about a conversation. Pet and
// product inference is sticky: once set, a field is never cleared by a
// later message that lacks the keywords.
type Memory struct {
	RecentMessages    []string `json:"recent_messages,omitempty"`
	PetType           string   `json:"pet_type,omitempty"`
	PetName           string   `json:"pet_name,omitempty"`
	ProductTypeNeeded string   `json:"product_type_needed,omitempty"`
}

var catWords = []string{"gato", "gata", "gatito", "gatita", "minino", "michi", "felino"}

var dogWords = []string{"perro", "perra", "perrito", "perrita", "cachorro", "can", "canino", "lomito"}

// productTypeHints maps a product type to the words that imply a
// customer is looking for it.
var productTypeHints = []struct {
	productType string
	keywords    []string
}{
	{"comida", []string{"comida", "croqueta", "alimento", "come"}},
	{"snack", []string{"snack", "premio", "golosina", "treat"}},
	{"juguete", []string{"juguete", "pelota", "jugar"}},
	{"higiene", []string{"shampoo", "baño", "limpieza"}},
	{"arena", []string{"arena", "arenero"}},
	{"accesorio", []string{"collar", "correa", "cama", "plato"}},
}

// AddMessage appends to the recent-message ring, dropping the oldest
// entry past the bound.
func (m *Memory) AddMessage(message string) {
	m.RecentMessages = append(m.RecentMessages, message)
	if len(m.RecentMessages) > memorySize {
		m.RecentMessages = m.RecentMessages[1:]
	}
}

// ExtractPetInfo scans the message for pet and product-type keywords
// and updates the sticky fields. A message naming several types keeps
// the last category scanned; contradictions overwrite silently.
func (m *Memory) ExtractPetInfo(message string) {
	messageLower := strings.ToLower(message)

	for _, word := range catWords {
		if strings.Contains(messageLower, word) {
			m.PetType = "gato"
			break
		}
	}
	for _, word := range dogWords {
		if strings.Contains(messageLower, word) {
			m.PetType = "perro"
			break
		}
	}

	for _, hint := range productTypeHints {
		for _, keyword := range hint.keywords {
			if strings.Contains(messageLower, keyword) {
				m.ProductTypeNeeded = hint.productType
				break
			}
		}
	}
}

// HasEnoughInfoToSearch reports whether a search can be built from
// memory alone.
func (m *Memory) HasEnoughInfoToSearch() bool {
	return m.PetType != "" && m.ProductTypeNeeded != ""
}

// SearchQuery builds a catalog query from the remembered pet and
// product type.
func (m *Memory) SearchQuery() string {
	parts := make([]string, 0, 2)
	if m.ProductTypeNeeded != "" {
		parts = append(parts, m.ProductTypeNeeded)
	}
	if m.PetType != "" {
		parts = append(parts, m.PetType)
	}
	return strings.Join(parts, " ")
}

// ContextString renders the memory for inclusion in an oracle prompt.
func (m *Memory) ContextString(stage string, hasItems bool, waitingFor string) string {
	parts := []string{}
	if len(m.RecentMessages) > 0 {
		recent := m.RecentMessages
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		parts = append(parts, "Mensajes recientes: "+strings.Join(recent, " | "))
	}
	if m.PetType != "" {
		parts = append(parts, "Mascota del cliente: "+m.PetType)
	}
	if m.PetName != "" {
		parts = append(parts, "Nombre de la mascota: "+m.PetName)
	}
	if m.ProductTypeNeeded != "" {
		parts = append(parts, "Busca: "+m.ProductTypeNeeded)
	}
	if stage != "" {
		parts = append(parts, "Etapa del pedido: "+stage)
	}
	if hasItems {
		parts = append(parts, "El cliente tiene productos en el carrito")
	}
	if waitingFor != "" {
		parts = append(parts, "Esperando: "+waitingFor)
	}
	if len(parts) == 0 {
		return "Sin contexto previo"
	}
	return strings.Join(parts, "; ")
}
