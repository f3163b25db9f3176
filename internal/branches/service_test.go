package branches

import (
	"strings"
	"testing"

	"ruffo_chat_backend/platform/logger"
)

func TestByID(t *testing.T) {
	svc := NewService(logger.New("development"))

	branch := svc.ByID("tecamac")
	if branch == nil {
		t.Fatal("expected tecamac branch")
	}
	if branch.Name != "Animalicha Tecámac Centro" {
		t.Errorf("unexpected branch name %q", branch.Name)
	}

	if svc.ByID("narnia") != nil {
		t.Error("expected nil for unknown branch id")
	}
}

func TestNearest(t *testing.T) {
	svc := NewService(logger.New("development"))

	tests := []struct {
		name     string
		location string
		wantID   string
	}{
		{"ojo de agua", "vivo por ojo de agua", "ojo-agua"},
		{"tecamac", "Tecamac", "tecamac"},
		{"centro", "cerca del centro", "tecamac"},
		{"ecatepec", "ECATEPEC", "ecatepec"},
		{"unknown defaults to first", "guadalajara", "ojo-agua"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Nearest(tt.location); got.ID != tt.wantID {
				t.Errorf("Nearest(%q) = %s, want %s", tt.location, got.ID, tt.wantID)
			}
		})
	}
}

func TestFormatAllListsEveryBranch(t *testing.T) {
	svc := NewService(logger.New("development"))

	text := svc.FormatAll()
	for _, branch := range svc.All() {
		if !strings.Contains(text, branch.Name) {
			t.Errorf("formatted directory missing branch %q", branch.Name)
		}
	}
}
