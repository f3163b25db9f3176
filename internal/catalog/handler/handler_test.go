package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ruffo_chat_backend/internal/catalog/service"
	"ruffo_chat_backend/internal/catalog/sheets"
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/platform/logger"
	"ruffo_chat_backend/platform/validator"
)

type fakeSource struct {
	rows []sheets.Row
	err  error
}

func (f *fakeSource) Rows(_ context.Context) ([]sheets.Row, error) {
	return f.rows, f.err
}

func newTestRouter(source *fakeSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(source, logger.New("development"))
	h := New(svc, validator.New())
	r := gin.New()
	r.GET("/api/v1/catalog/products/:id", h.GetProductByID)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProductByID(t *testing.T) {
	source := &fakeSource{rows: []sheets.Row{{
		"Clave":            "A1",
		"Descripcion":      "Croquetas para perro",
		"Marca":            "Pro Plan",
		"Familia":          "Alimento",
		"linea":            "Premium",
		"Precio Publico":   "450",
		"Unidad":           "PZ",
		"Codigo de barras": "750A1",
	}}}
	r := newTestRouter(source)

	w := get(t, r, "/api/v1/catalog/products/A1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var product transport.Product
	if err := json.Unmarshal(w.Body.Bytes(), &product); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if product.Name != "Croquetas para perro" {
		t.Errorf("Name = %q", product.Name)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	r := newTestRouter(&fakeSource{})

	w := get(t, r, "/api/v1/catalog/products/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetProductByIDSourceError(t *testing.T) {
	r := newTestRouter(&fakeSource{err: errors.New("sheet unavailable")})

	w := get(t, r, "/api/v1/catalog/products/A1")
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 when the catalog source is down", w.Code)
	}
}
