// Package intent detects the purpose of an inbound chat message. A
// keyword fast path handles the common cases; an LLM oracle covers the
// rest.
package intent

import (
	"context"
	"strings"

	"ruffo_chat_backend/platform/logger"
)

// Intent is the detected purpose of an inbound message.
type Intent string

const (
	Greeting          Intent = "greeting"
	BuyOrder          Intent = "buy_order"
	ProductInquiry    Intent = "product_inquiry"
	BranchInfo        Intent = "branch_info"
	ProblemEscalation Intent = "problem_escalation"
	Wholesaler        Intent = "wholesaler"
	OrderStatus       Intent = "order_status"
	PaymentProof      Intent = "payment_proof"
	Farewell          Intent = "farewell"
	Unknown           Intent = "unknown"
)

// keywordIntents powers the fast path. Order matters: the first intent
// with a matching keyword wins.
var keywordIntents = []struct {
	intent   Intent
	keywords []string
}{
	{Greeting, []string{"hola", "buenos días", "buenas tardes", "buenas noches", "hey", "qué tal", "hi"}},
	{Farewell, []string{"adiós", "bye", "gracias", "hasta luego", "chao", "nos vemos"}},
	{BuyOrder, []string{"comprar", "ordenar", "pedir", "quiero", "necesito", "agregar", "carrito"}},
	{ProductInquiry, []string{"precio", "cuánto cuesta", "tienen", "hay", "busco", "información"}},
	{BranchInfo, []string{"sucursal", "tienda", "horario", "dirección", "ubicación", "dónde"}},
	{ProblemEscalation, []string{"problema", "queja", "reclamo", "mal", "error", "ayuda urgente"}},
	{Wholesaler, []string{"mayoreo", "mayorista", "distribuidor", "volumen", "precio especial"}},
}

var labels = map[string]Intent{
	"greeting":           Greeting,
	"buy_order":          BuyOrder,
	"product_inquiry":    ProductInquiry,
	"branch_info":        BranchInfo,
	"problem_escalation": ProblemEscalation,
	"wholesaler":         Wholesaler,
	"order_status":       OrderStatus,
	"payment_proof":      PaymentProof,
	"farewell":           Farewell,
	"unknown":            Unknown,
}

// ClassifyByKeywords matches the message against the keyword table and
// reports whether anything matched.
func ClassifyByKeywords(message string) (Intent, bool) {
	messageLower := strings.ToLower(message)
	for _, entry := range keywordIntents {
		for _, keyword := range entry.keywords {
			if strings.Contains(messageLower, keyword) {
				return entry.intent, true
			}
		}
	}
	return Unknown, false
}

// Oracle is the LLM fallback for messages the keyword table cannot
// place.
type Oracle interface {
	ClassifyIntent(ctx context.Context, contextStr, message string) (string, error)
}

// Classifier combines the keyword fast path with the LLM fallback.
type Classifier struct {
	oracle Oracle
	log    *logger.Logger
}

// NewClassifier creates an intent classifier.
func NewClassifier(oracle Oracle, log *logger.Logger) *Classifier {
	return &Classifier{oracle: oracle, log: log}
}

// Classify detects the message intent. Keywords win over everything;
// mid-order messages without a keyword match continue the order flow;
// only then is the oracle consulted.
func (c *Classifier) Classify(ctx context.Context, message, contextStr string, inOrderFlow bool) Intent {
	if result, ok := ClassifyByKeywords(message); ok {
		return result
	}

	if inOrderFlow {
		return BuyOrder
	}

	label, err := c.oracle.ClassifyIntent(ctx, contextStr, message)
	if err != nil {
		c.log.OracleError("classify_intent", err)
		return Unknown
	}

	if result, ok := labels[label]; ok {
		return result
	}
	return Unknown
}
