package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ruffo_chat_backend/internal/branches"
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/internal/chat/intent"
	"ruffo_chat_backend/internal/conversation"
	appevents "ruffo_chat_backend/internal/events"
	"ruffo_chat_backend/internal/order/domain"
	orderservice "ruffo_chat_backend/internal/order/service"
	"ruffo_chat_backend/internal/upsell"
	"ruffo_chat_backend/platform/events"
	"ruffo_chat_backend/platform/logger"
)

// downOracle fails every call so the canned fallbacks are exercised.
type downOracle struct{}

func (downOracle) Reply(context.Context, string, string, string, string) (string, error) {
	return "", errors.New("oracle unavailable")
}

func (downOracle) Converse(context.Context, string, string, string, string) (string, error) {
	return "", errors.New("oracle unavailable")
}

func (downOracle) ClassifyIntent(context.Context, string, string) (string, error) {
	return "", errors.New("oracle unavailable")
}

type fakeCatalog struct {
	results map[string][]transport.Product
}

func (f *fakeCatalog) Search(_ context.Context, query, _ string, _ int) []transport.Product {
	return f.results[query]
}

type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

func (b *captureBus) published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events
}

func newTestService(t *testing.T, catalogResults map[string][]transport.Product) (*Service, conversation.Store, *captureBus) {
	t.Helper()
	log := logger.New("development")
	store := conversation.NewMemoryStore()
	bus := &captureBus{}
	catalog := &fakeCatalog{results: catalogResults}
	oracle := downOracle{}
	branchSvc := branches.NewService(log)
	flow := orderservice.NewFlow(catalog, branchSvc, upsell.NewService(catalog, log), oracle, bus, log)
	classifier := intent.NewClassifier(oracle, log)
	svc := New(store, classifier, oracle, flow, catalog, branchSvc, bus, log)
	return svc, store, bus
}

func TestHandleMessageGreeting(t *testing.T) {
	svc, store, _ := newTestService(t, nil)

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "hola")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "Ruffo") {
		t.Errorf("reply = %q, want the greeting fallback", reply)
	}

	state, err := store.Load(context.Background(), "t1", "http")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Intent != string(intent.Greeting) {
		t.Errorf("Intent = %q, want greeting", state.Intent)
	}
	if state.IsNewConversation {
		t.Error("IsNewConversation = true after the first turn")
	}
	if state.LastReply != reply {
		t.Errorf("LastReply = %q, want %q", state.LastReply, reply)
	}
}

func TestHandleMessageStartsOrder(t *testing.T) {
	product := transport.Product{ID: "P1", Name: "Croquetas Adulto", Category: "alimento", Price: 250}
	svc, store, _ := newTestService(t, map[string][]transport.Product{
		"quiero croquetas para mi perro": {product},
	})

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "quiero croquetas para mi perro")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	state, _ := store.Load(context.Background(), "t1", "http")
	if state.Stage != domain.StageCollectingItems {
		t.Fatalf("Stage = %q, want collecting_items", state.Stage)
	}
	if len(state.Cart.Items) != 1 || state.Cart.Items[0].ProductID != "P1" {
		t.Fatalf("cart = %+v, want P1", state.Cart.Items)
	}
	if state.Memory.PetType != "perro" {
		t.Errorf("PetType = %q, want perro", state.Memory.PetType)
	}
	if !strings.Contains(reply, product.Name) {
		t.Errorf("reply = %q, want it to mention the product", reply)
	}
}

func TestHandleMessageContinuesOrderWithoutKeywords(t *testing.T) {
	product := transport.Product{ID: "P2", Name: "Arena Premium", Category: "arena", Price: 120}
	svc, store, _ := newTestService(t, map[string][]transport.Product{
		"quiero arena para mi gato": {product},
		"dame una de esas":          {},
	})

	if _, err := svc.HandleMessage(context.Background(), "t1", "http", "quiero arena para mi gato"); err != nil {
		t.Fatalf("first turn: %v", err)
	}

	// No buy keyword here; the open order keeps the flow going.
	if _, err := svc.HandleMessage(context.Background(), "t1", "http", "dame una de esas"); err != nil {
		t.Fatalf("second turn: %v", err)
	}

	state, _ := store.Load(context.Background(), "t1", "http")
	if state.Intent != string(intent.BuyOrder) {
		t.Errorf("Intent = %q, want buy_order continuation", state.Intent)
	}
}

func TestHandleMessageBranchInfo(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "¿dónde está la sucursal?")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	for _, name := range []string{"Ojo de Agua", "Tecámac", "Ecatepec"} {
		if !strings.Contains(reply, name) {
			t.Errorf("reply missing branch %q", name)
		}
	}
}

func TestHandleMessageNearestBranch(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "¿cuál sucursal me queda más cerca? estoy en ecatepec")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if !strings.Contains(reply, "más cercana") || !strings.Contains(reply, "Ecatepec") {
		t.Errorf("reply = %q, want the nearest branch (Ecatepec)", reply)
	}
}

func TestHandleMessageEscalation(t *testing.T) {
	svc, store, bus := newTestService(t, nil)

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "tengo una queja del servicio")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "equipo humano") {
		t.Errorf("reply = %q, want the problem escalation message", reply)
	}

	state, _ := store.Load(context.Background(), "t1", "http")
	if !state.NeedsEscalation {
		t.Error("NeedsEscalation = false, want true")
	}

	published := bus.published()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	raised, ok := published[0].(appevents.EscalationRaised)
	if !ok {
		t.Fatalf("published event is %T, want EscalationRaised", published[0])
	}
	if !strings.Contains(raised.Reason, "Problema reportado") {
		t.Errorf("Reason = %q", raised.Reason)
	}
}

func TestHandleMessageWholesaler(t *testing.T) {
	svc, _, bus := newTestService(t, nil)

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "soy distribuidor, manejo volumen")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "Frida") {
		t.Errorf("reply = %q, want the wholesaler handoff", reply)
	}
	if len(bus.published()) != 1 {
		t.Errorf("published %d events, want 1", len(bus.published()))
	}
}

func TestHandleMessageFarewell(t *testing.T) {
	svc, store, _ := newTestService(t, nil)

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "adiós ruffo")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == "" {
		t.Fatal("empty farewell")
	}

	state, _ := store.Load(context.Background(), "t1", "http")
	if !state.Ended {
		t.Error("Ended = false, want true after farewell")
	}
}

func TestProductInquiryAsksForMissingInfo(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	// No pet known yet: the bot must ask for the pet first.
	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "¿qué precio tienen los shampoos?")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "mascota") {
		t.Errorf("reply = %q, want a question about the pet", reply)
	}
}

func TestProductInquirySearchesWithFullContext(t *testing.T) {
	product := transport.Product{ID: "P1", Name: "Croquetas Gato Adulto", Category: "alimento", Price: 310}
	svc, store, _ := newTestService(t, map[string][]transport.Product{
		"comida gato": {product},
	})

	reply, err := svc.HandleMessage(context.Background(), "t1", "http", "¿tienen comida para mi gato?")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if !strings.Contains(reply, product.Name) {
		t.Errorf("reply = %q, want the found product listed", reply)
	}

	state, _ := store.Load(context.Background(), "t1", "http")
	if len(state.FoundProducts) != 1 {
		t.Errorf("FoundProducts = %d, want 1", len(state.FoundProducts))
	}
	if state.LastSearchQuery != "comida gato" {
		t.Errorf("LastSearchQuery = %q, want %q", state.LastSearchQuery, "comida gato")
	}
}
