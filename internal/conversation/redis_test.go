package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"ruffo_chat_backend/internal/order/domain"
)

func newMiniredisStore(t *testing.T) *RedisStore {
	t.Helper()
	srv := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+srv.Addr(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newMiniredisStore(t)
	ctx := context.Background()

	state := NewState("t-1", "web")
	state.Stage = domain.StageConfirmingItems
	state.Memory.PetType = "gato"
	state.Cart.AddItem(domain.CartItem{ProductID: "A1", ProductName: "Arena", Quantity: 2, UnitPrice: 95})

	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "t-1", "web")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Stage != domain.StageConfirmingItems {
		t.Errorf("stage = %q, want confirming_items", loaded.Stage)
	}
	if loaded.Memory.PetType != "gato" {
		t.Errorf("pet type = %q, want gato", loaded.Memory.PetType)
	}
	if loaded.Cart.Subtotal() != 190 {
		t.Errorf("subtotal = %v, want 190", loaded.Cart.Subtotal())
	}
}

func TestRedisStoreLoadUnknownThread(t *testing.T) {
	store := newMiniredisStore(t)

	state, err := store.Load(context.Background(), "missing", "telegram")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !state.IsNewConversation {
		t.Error("expected fresh state for unknown thread")
	}
	if state.Channel != "telegram" {
		t.Errorf("channel = %q, want telegram", state.Channel)
	}
}

func TestMemoryStoreIsolatesThreads(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := NewState("a", "web")
	a.Memory.PetType = "perro"
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	b, err := store.Load(ctx, "b", "web")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.Memory.PetType != "" {
		t.Error("expected thread b to start empty")
	}

	// Mutating a loaded copy must not leak into the store.
	loaded, _ := store.Load(ctx, "a", "web")
	loaded.Memory.PetType = "gato"
	again, _ := store.Load(ctx, "a", "web")
	if again.Memory.PetType != "perro" {
		t.Errorf("store mutated through a loaded copy: %q", again.Memory.PetType)
	}
}
