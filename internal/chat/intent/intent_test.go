package intent

import (
	"context"
	"errors"
	"testing"

	"ruffo_chat_backend/platform/logger"
)

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
		matched bool
	}{
		{"hola ruffo", Greeting, true},
		{"Buenos días", Greeting, true},
		{"quiero croquetas", BuyOrder, true},
		{"cuánto cuesta el shampoo", ProductInquiry, true},
		{"¿dónde están?", BranchInfo, true},
		{"tengo un problema con mi pedido", ProblemEscalation, true},
		{"venta por volumen", Wholesaler, true},
		{"gracias, adiós", Farewell, true},
		{"zzz", Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ClassifyByKeywords(tt.message)
			if got != tt.want || ok != tt.matched {
				t.Errorf("ClassifyByKeywords(%q) = %v, %v; want %v, %v", tt.message, got, ok, tt.want, tt.matched)
			}
		})
	}
}

func TestClassifyByKeywordsFirstIntentWins(t *testing.T) {
	// "hola" (greeting) and "quiero" (buy_order) both match; greeting
	// is checked first.
	got, ok := ClassifyByKeywords("hola, quiero croquetas")
	if !ok || got != Greeting {
		t.Errorf("got %v, want greeting", got)
	}
}

type stubOracle struct {
	label string
	err   error
	calls int
}

func (s *stubOracle) ClassifyIntent(context.Context, string, string) (string, error) {
	s.calls++
	return s.label, s.err
}

func TestClassifierMidOrderSkipsOracle(t *testing.T) {
	oracle := &stubOracle{label: "unknown"}
	c := NewClassifier(oracle, logger.New("development"))

	got := c.Classify(context.Background(), "dos de esas", "", true)

	if got != BuyOrder {
		t.Errorf("Classify = %v, want buy_order while an order is in progress", got)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle called %d times, want 0", oracle.calls)
	}
}

func TestClassifierKeywordsBeatOrderFlow(t *testing.T) {
	oracle := &stubOracle{}
	c := NewClassifier(oracle, logger.New("development"))

	got := c.Classify(context.Background(), "¿qué horario tiene la sucursal?", "", true)

	if got != BranchInfo {
		t.Errorf("Classify = %v, want branch_info even mid-order", got)
	}
}

func TestClassifierOracleFallback(t *testing.T) {
	t.Run("valid label", func(t *testing.T) {
		oracle := &stubOracle{label: "order_status"}
		c := NewClassifier(oracle, logger.New("development"))

		if got := c.Classify(context.Background(), "y mi paquete?", "", false); got != OrderStatus {
			t.Errorf("Classify = %v, want order_status", got)
		}
	})

	t.Run("unrecognized label", func(t *testing.T) {
		oracle := &stubOracle{label: "sales_pitch"}
		c := NewClassifier(oracle, logger.New("development"))

		if got := c.Classify(context.Background(), "mmm", "", false); got != Unknown {
			t.Errorf("Classify = %v, want unknown", got)
		}
	})

	t.Run("oracle error", func(t *testing.T) {
		oracle := &stubOracle{err: errors.New("timeout")}
		c := NewClassifier(oracle, logger.New("development"))

		if got := c.Classify(context.Background(), "mmm", "", false); got != Unknown {
			t.Errorf("Classify = %v, want unknown on oracle failure", got)
		}
	})
}
