package service

import (
	"context"
	"errors"
	"testing"

	"ruffo_chat_backend/internal/catalog/sheets"
	"ruffo_chat_backend/platform/apperr"
	"ruffo_chat_backend/platform/logger"
)

type fakeSource struct {
	rows []sheets.Row
	err  error
}

func (f *fakeSource) Rows(ctx context.Context) ([]sheets.Row, error) {
	return f.rows, f.err
}

func testRow(clave, descripcion, marca, familia, linea, precio string) sheets.Row {
	return sheets.Row{
		"Clave":            clave,
		"Descripcion":      descripcion,
		"Marca":            marca,
		"Familia":          familia,
		"linea":            linea,
		"Precio Publico":   precio,
		"Unidad":           "PZ",
		"Codigo de barras": "750" + clave,
	}
}

func newTestService(rows []sheets.Row, err error) *Service {
	return New(&fakeSource{rows: rows, err: err}, logger.New("development"))
}

func TestSearchMatchesQueryWords(t *testing.T) {
	svc := newTestService([]sheets.Row{
		testRow("A1", "Croquetas para perro adulto", "Pro Plan", "Alimento", "Premium", "450"),
		testRow("B2", "Collar ajustable", "Kong", "Accesorios", "Perro", "120"),
		testRow("C3", "Arena aglutinante", "Cat Chow", "Arena", "Gato", "95"),
	}, nil)

	results := svc.Search(context.Background(), "croquetas", "", 5)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "A1" {
		t.Errorf("expected product A1, got %s", results[0].ID)
	}
}

func TestSearchExpandsProductTypeSynonyms(t *testing.T) {
	svc := newTestService([]sheets.Row{
		testRow("A1", "Alimento premium para cachorro", "Ganador", "Alimento", "Basico", "300"),
	}, nil)

	// "comida" never appears in the row; its synonym "alimento" does.
	results := svc.Search(context.Background(), "comida", "", 5)
	if len(results) != 1 {
		t.Fatalf("expected synonym expansion to match, got %d results", len(results))
	}
}

func TestSearchExcludesOtherPetProducts(t *testing.T) {
	svc := newTestService([]sheets.Row{
		testRow("A1", "Croquetas para perro", "Pro Plan", "Alimento", "Premium", "450"),
		testRow("B2", "Croquetas para gato", "Whiskas", "Alimento", "Premium", "380"),
	}, nil)

	results := svc.Search(context.Background(), "croquetas", "perro", 5)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "A1" {
		t.Errorf("expected dog product, got %s", results[0].ID)
	}
}

func TestSearchBrandImpliesPetType(t *testing.T) {
	// Description never mentions the pet; the brand does the work.
	svc := newTestService([]sheets.Row{
		testRow("A1", "Croquetas adulto razas grandes", "Royal Canin", "Alimento", "Premium", "900"),
	}, nil)

	results := svc.Search(context.Background(), "croquetas", "perro", 5)
	if len(results) != 1 {
		t.Fatalf("expected brand match to keep product, got %d results", len(results))
	}
}

func TestSearchDualPetMatchIsPenalizedNotExcluded(t *testing.T) {
	svc := newTestService([]sheets.Row{
		testRow("A1", "Shampoo para perro", "Generica", "Higiene", "Basico", "80"),
		testRow("B2", "Shampoo para perro y gato", "Generica", "Higiene", "Basico", "85"),
	}, nil)

	results := svc.Search(context.Background(), "shampoo", "perro", 5)
	if len(results) != 2 {
		t.Fatalf("expected both products, got %d", len(results))
	}
	if results[0].ID != "A1" {
		t.Errorf("expected penalized dual-pet product last, got %s first", results[0].ID)
	}
}

func TestSearchNormalizesPetAlias(t *testing.T) {
	svc := newTestService([]sheets.Row{
		testRow("A1", "Alimento para hamster", "Vitakraft", "Alimento", "Roedores", "150"),
	}, nil)

	results := svc.Search(context.Background(), "alimento", "roedor", 5)
	if len(results) != 1 {
		t.Fatalf("expected alias roedor to resolve to hamster, got %d results", len(results))
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	rows := []sheets.Row{
		testRow("A1", "Pelota chica", "Kong", "Juguetes", "Perro", "50"),
		testRow("A2", "Pelota mediana", "Kong", "Juguetes", "Perro", "70"),
		testRow("A3", "Pelota grande", "Kong", "Juguetes", "Perro", "90"),
	}
	svc := newTestService(rows, nil)

	results := svc.Search(context.Background(), "pelota", "", 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchStableOrderOnEqualScores(t *testing.T) {
	rows := []sheets.Row{
		testRow("A1", "Correa roja", "Generica", "Accesorios", "Basico", "60"),
		testRow("A2", "Correa azul", "Generica", "Accesorios", "Basico", "60"),
	}
	svc := newTestService(rows, nil)

	results := svc.Search(context.Background(), "correa", "", 5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "A1" || results[1].ID != "A2" {
		t.Errorf("expected source order preserved on ties, got %s then %s", results[0].ID, results[1].ID)
	}
}

func TestSearchEmptyOnSourceError(t *testing.T) {
	svc := newTestService(nil, errors.New("sheet unavailable"))

	results := svc.Search(context.Background(), "croquetas", "", 5)
	if len(results) != 0 {
		t.Fatalf("expected empty results on source error, got %d", len(results))
	}
}

func TestSearchVerbatimQueryOutranksWordMatches(t *testing.T) {
	rows := []sheets.Row{
		testRow("A1", "Snack dental perro", "Pedigree", "Snacks", "Dental", "110"),
		testRow("A2", "Premios dental snack perro grande", "Pedigree", "Snacks", "Dental", "130"),
	}
	svc := newTestService(rows, nil)

	results := svc.Search(context.Background(), "snack dental perro", "", 5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "A1" {
		t.Errorf("expected verbatim match first, got %s", results[0].ID)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "450", 450},
		{"currency", "$1,250.50", 1250.50},
		{"spaces", " 85.00 ", 85},
		{"empty", "", 0},
		{"malformed", "precio", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePrice(tt.input); got != tt.want {
				t.Errorf("parsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	svc := newTestService([]sheets.Row{
		testRow("A1", "Croquetas para perro", "Pro Plan", "Alimento", "Premium", "450"),
	}, nil)

	product, err := svc.GetByID(context.Background(), "A1")
	if err != nil || product == nil || product.Name != "Croquetas para perro" {
		t.Fatalf("expected lookup by key to succeed, got %+v, %v", product, err)
	}
	if _, err := svc.GetByID(context.Background(), "750A1"); err != nil {
		t.Fatalf("expected lookup by barcode to succeed, got %v", err)
	}

	_, err = svc.GetByID(context.Background(), "missing")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected a not-found error for unknown id, got %v", err)
	}
}

func TestGetByIDSourceError(t *testing.T) {
	svc := newTestService(nil, errors.New("sheet unavailable"))

	_, err := svc.GetByID(context.Background(), "A1")
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected an upstream error when the sheet is unreachable, got %v", err)
	}
}

func TestListByCategory(t *testing.T) {
	rows := []sheets.Row{
		testRow("A1", "Croquetas para perro", "Pro Plan", "Alimento", "Premium", "450"),
		testRow("B2", "Croquetas para gato", "Whiskas", "Alimento", "Premium", "380"),
		testRow("C3", "Pelota", "Kong", "Juguetes", "Perro", "50"),
	}
	svc := newTestService(rows, nil)

	all := svc.ListByCategory(context.Background(), "alimento", "", 10)
	if len(all) != 2 {
		t.Fatalf("expected 2 alimento products, got %d", len(all))
	}

	dogs := svc.ListByCategory(context.Background(), "alimento", "perro", 10)
	if len(dogs) != 1 || dogs[0].ID != "A1" {
		t.Fatalf("expected only the dog product, got %+v", dogs)
	}
}
