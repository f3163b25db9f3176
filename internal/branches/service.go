// Package branches provides the store branch directory.
package branches

import (
	"strings"

	"ruffo_chat_backend/platform/logger"
)

// Branch describes one physical store.
type Branch struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Phone           string   `json:"phone"`
	Hours           string   `json:"hours"`
	Services        []string `json:"services"`
	PickupAvailable bool     `json:"pickup_available"`
	MapsURL         string   `json:"maps_url"`
}

// The directory is code-owned data for now. Moving it to the catalog
// sheet is a possible followup once store openings stabilize.
var directory = []Branch{
	{
		ID:              "ojo-agua",
		Name:            "Animalicha Ojo de Agua",
		Address:         "Av. Ojo de Agua 123, Tecámac, Estado de México",
		Phone:           "55-1234-5678",
		Hours:           "Lunes a Sábado 9:00 - 20:00, Domingo 10:00 - 18:00",
		Services:        []string{"pickup", "grooming", "veterinario"},
		PickupAvailable: true,
		MapsURL:         "https://maps.google.com/?q=Animalicha+Ojo+de+Agua",
	},
	{
		ID:              "tecamac",
		Name:            "Animalicha Tecámac Centro",
		Address:         "Calle Principal 456, Tecámac Centro, Estado de México",
		Phone:           "55-8765-4321",
		Hours:           "Lunes a Sábado 9:00 - 19:00, Domingo 10:00 - 17:00",
		Services:        []string{"pickup", "grooming"},
		PickupAvailable: true,
		MapsURL:         "https://maps.google.com/?q=Animalicha+Tecamac",
	},
	{
		ID:              "ecatepec",
		Name:            "Animalicha Ecatepec",
		Address:         "Blvd. de las Américas 789, Ecatepec, Estado de México",
		Phone:           "55-2468-1357",
		Hours:           "Lunes a Sábado 10:00 - 20:00, Domingo 11:00 - 18:00",
		Services:        []string{"pickup"},
		PickupAvailable: true,
		MapsURL:         "https://maps.google.com/?q=Animalicha+Ecatepec",
	},
}

// Service answers branch directory queries.
type Service struct {
	log *logger.Logger
}

// NewService creates a branch directory service.
func NewService(log *logger.Logger) *Service {
	return &Service{log: log}
}

// All returns every branch.
func (s *Service) All() []Branch {
	return directory
}

// ByID returns the branch with the given id, or nil.
func (s *Service) ByID(branchID string) *Branch {
	for i := range directory {
		if directory[i].ID == branchID {
			return &directory[i]
		}
	}
	return nil
}

// Nearest recommends a branch for a free-text location. Matching is a
// plain substring check; unknown locations get the first branch.
func (s *Service) Nearest(location string) Branch {
	locationLower := strings.ToLower(location)

	switch {
	case strings.Contains(locationLower, "ojo") || strings.Contains(locationLower, "agua"):
		return directory[0]
	case strings.Contains(locationLower, "tecamac") || strings.Contains(locationLower, "centro"):
		return directory[1]
	case strings.Contains(locationLower, "ecatepec"):
		return directory[2]
	}

	return directory[0]
}

// FormatBranch renders one branch as customer-facing reply text.
func (s *Service) FormatBranch(branch Branch) string {
	var b strings.Builder
	b.WriteString("🏪 **" + branch.Name + "**\n")
	b.WriteString("📍 " + branch.Address + "\n")
	b.WriteString("📞 " + branch.Phone + "\n")
	b.WriteString("🕐 " + branch.Hours + "\n")
	b.WriteString("🔧 Servicios: " + strings.Join(branch.Services, ", ") + "\n")
	b.WriteString("📍 " + branch.MapsURL + "\n")
	return b.String()
}

// FormatAll renders the whole directory as customer-facing reply text.
func (s *Service) FormatAll() string {
	lines := []string{"🏪 **Sucursales de Animalicha:**", ""}
	for _, branch := range directory {
		lines = append(lines,
			"**"+branch.Name+"**",
			"  📍 "+branch.Address,
			"  📞 "+branch.Phone,
			"  🕐 "+branch.Hours,
			"")
	}
	return strings.Join(lines, "\n")
}
