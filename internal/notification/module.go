// Package notification turns domain events into Slack messages for the
// store staff.
package notification

import (
	"context"
	"fmt"
	"strings"

	"ruffo_chat_backend/internal/events"
	"ruffo_chat_backend/internal/notification/slack"
	"ruffo_chat_backend/platform/config"
	"ruffo_chat_backend/platform/logger"
)

// Sender posts a message to a channel. Satisfied by the Slack client.
type Sender interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// Module subscribes to domain events and forwards them to Slack. When
// no bot token is configured the module stays inert and only logs.
type Module struct {
	sender         Sender
	ordersChannel  string
	supportChannel string
	enabled        bool
	log            *logger.Logger
}

// NewModule creates the notification module and registers its event
// subscriptions on the bus.
func NewModule(cfg config.SlackConfig, bus events.Bus, log *logger.Logger) *Module {
	m := &Module{
		ordersChannel:  cfg.GetSlackOrdersChannel(),
		supportChannel: cfg.GetSlackSupportChannel(),
		enabled:        cfg.GetSlackBotToken() != "",
		log:            log,
	}
	if m.enabled {
		m.sender = slack.NewClient(cfg.GetSlackBotToken(), log)
	} else {
		log.Warn("slack notifications disabled, no bot token configured")
	}

	bus.Subscribe(events.OrderPlaced{}.EventName(), events.HandlerFunc(m.handleOrderPlaced))
	bus.Subscribe(events.EscalationRaised{}.EventName(), events.HandlerFunc(m.handleEscalationRaised))

	return m
}

func (m *Module) handleOrderPlaced(ctx context.Context, event events.Event) error {
	placed, ok := event.(events.OrderPlaced)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	text := FormatOrder(placed)
	if !m.enabled {
		m.log.Info("order notification skipped", "order_number", placed.OrderNumber)
		return nil
	}

	if err := m.sender.PostMessage(ctx, m.ordersChannel, text); err != nil {
		m.log.Error("failed to post order to slack", "order_number", placed.OrderNumber, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleEscalationRaised(ctx context.Context, event events.Event) error {
	raised, ok := event.(events.EscalationRaised)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	text := FormatEscalation(raised)
	if !m.enabled {
		m.log.Info("escalation notification skipped", "thread_id", raised.ThreadID)
		return nil
	}

	if err := m.sender.PostMessage(ctx, m.supportChannel, text); err != nil {
		m.log.Error("failed to post escalation to slack", "thread_id", raised.ThreadID, "error", err)
		return err
	}
	return nil
}

// FormatOrder renders the staff-facing order summary.
func FormatOrder(e events.OrderPlaced) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":package: *Nuevo pedido %s*\n", e.OrderNumber)
	fmt.Fprintf(&b, "Canal: %s | Thread: %s\n", e.Channel, e.ThreadID)
	fmt.Fprintf(&b, "Productos: %s\n", e.ItemsSummary)

	if e.DeliveryMethod == "pickup" {
		fmt.Fprintf(&b, "Entrega: pickup en %s\n", e.PickupBranch)
	} else {
		fmt.Fprintf(&b, "Entrega: domicilio, %s\n", e.DeliveryAddress)
	}

	fmt.Fprintf(&b, "Pago: %s\n", e.PaymentMethod)
	fmt.Fprintf(&b, "Subtotal: $%.2f | Envío: $%.2f | *Total: $%.2f*", e.Subtotal, e.ShippingCost, e.Total)
	return b.String()
}

// FormatEscalation renders the staff-facing escalation alert.
func FormatEscalation(e events.EscalationRaised) string {
	var b strings.Builder
	b.WriteString(":rotating_light: *Conversación escalada*\n")
	fmt.Fprintf(&b, "Canal: %s | Thread: %s\n", e.Channel, e.ThreadID)
	fmt.Fprintf(&b, "Motivo: %s\n", e.Reason)
	fmt.Fprintf(&b, "Último mensaje: %s", e.Message)
	return b.String()
}
