// Package service implements the order-collection flow. Each stage has
// a handler that inspects the inbound message, mutates the
// conversation state and produces exactly one reply.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"ruffo_chat_backend/internal/branches"
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/internal/conversation"
	"ruffo_chat_backend/internal/events"
	"ruffo_chat_backend/internal/order/domain"
	"ruffo_chat_backend/internal/upsell"
	"ruffo_chat_backend/platform/logger"
)

// Catalog is the slice of the catalog service the flow needs.
type Catalog interface {
	Search(ctx context.Context, query, petType string, maxResults int) []transport.Product
}

// Responder renders stage replies in the bot's voice. Implementations
// call the LLM oracle; a stub keeps tests deterministic.
type Responder interface {
	Reply(ctx context.Context, stage, orderContext, userMessage, task string) (string, error)
}

var affirmativeWords = []string{"sí", "si", "ok", "listo", "confirmo", "correcto", "eso"}

var negativeWords = []string{"no", "cambiar", "modificar", "quitar"}

var pickupWords = []string{"pickup", "recoger", "tienda", "sucursal"}

var deliveryWords = []string{"domicilio", "casa", "envío", "envio", "enviar", "llevar"}

// Flow drives an order through its stages.
type Flow struct {
	catalog   Catalog
	branches  *branches.Service
	upsell    *upsell.Service
	responder Responder
	bus       events.Bus
	log       *logger.Logger
}

// NewFlow creates the order flow.
func NewFlow(catalog Catalog, branchSvc *branches.Service, upsellSvc *upsell.Service, responder Responder, bus events.Bus, log *logger.Logger) *Flow {
	return &Flow{
		catalog:   catalog,
		branches:  branchSvc,
		upsell:    upsellSvc,
		responder: responder,
		bus:       bus,
		log:       log,
	}
}

// HandleStage processes one inbound message for the state's current
// stage and returns the reply. It never returns an error; every
// failure collapses to an in-character reply.
func (f *Flow) HandleStage(ctx context.Context, state *conversation.State, message string) string {
	switch state.Stage {
	case domain.StageUnset, domain.StageCollectingItems:
		return f.collectItems(ctx, state, message)
	case domain.StageConfirmingItems:
		return f.confirmItems(ctx, state, message)
	case domain.StageSelectingDelivery:
		return f.selectDelivery(ctx, state, message)
	case domain.StageCollectingAddress:
		return f.collectAddress(ctx, state, message)
	case domain.StageSelectingBranch:
		return f.selectBranch(ctx, state, message)
	case domain.StageSelectingPayment:
		return f.selectPayment(ctx, state, message)
	case domain.StageWaitingPaymentProof:
		return f.receivePaymentProof(ctx, state, message)
	case domain.StageConfirmingOrder:
		return f.confirmOrder(ctx, state, message)
	default:
		// Corrupted stage value. Reset the order and start over.
		f.log.Warn("unknown order stage, resetting", "stage", string(state.Stage), "thread_id", state.ThreadID)
		state.ResetOrder()
		state.Stage = domain.StageCollectingItems
		return f.render(ctx, "error",
			"Algo salió mal en el flujo del pedido",
			message,
			"Dile amablemente que algo se reinició y pregunta qué quiere pedir",
			"🐕 ¡Guau! Algo se enredó. ¿Qué te gustaría pedir, humano-amigo?")
	}
}

func (f *Flow) collectItems(ctx context.Context, state *conversation.State, message string) string {
	state.Stage = domain.StageCollectingItems
	messageLower := strings.ToLower(strings.TrimSpace(message))

	// A pending numbered choice resolves against the last search.
	if len(state.FoundProducts) > 0 {
		if choice, err := strconv.Atoi(messageLower); err == nil && choice >= 1 && choice <= len(state.FoundProducts) {
			product := state.FoundProducts[choice-1]
			state.FoundProducts = nil
			return f.addToCart(ctx, state, product, message)
		}
	}

	if rest, ok := strings.CutPrefix(messageLower, "quitar "); ok {
		return f.removeFromCart(ctx, state, strings.TrimSpace(rest), message)
	}

	products := f.catalog.Search(ctx, message, state.Memory.PetType, 5)

	if len(products) == 0 {
		petNote := state.Memory.PetType
		if petNote == "" {
			petNote = "no especificada"
		}
		return f.render(ctx, "collecting_items",
			fmt.Sprintf("No encontré productos para '%s'. Mascota del cliente: %s", message, petNote),
			message,
			"Dile que no encontraste el producto pero pide que lo describa diferente. Da ejemplos como 'croquetas para perro' o 'snacks de pollo'. Sé amigable.",
			fmt.Sprintf("🐕 ¡Guau! No encontré '%s' en mi catálogo, humano-amigo.\n¿Me lo describes diferente? Por ejemplo: 'croquetas para perro' o 'snacks de pollo' 🔍", message))
	}

	if len(products) == 1 {
		return f.addToCart(ctx, state, products[0], message)
	}

	state.FoundProducts = products
	state.LastSearchQuery = message

	var options strings.Builder
	for i, p := range products {
		fmt.Fprintf(&options, "%d. %s - $%.2f\n", i+1, p.Name, p.Price)
	}

	return f.render(ctx, "collecting_items",
		fmt.Sprintf("Encontré %d productos. Opciones:\n%s", len(products), options.String()),
		message,
		"Dile que encontraste varios productos y muestra las opciones. Pide que elija por número o nombre.",
		fmt.Sprintf("🔍 ¡Genial! Encontré varias opciones:\n\n%s\n¿Cuál te late? Dime el número o el nombre 🐾", options.String()))
}

func (f *Flow) addToCart(ctx context.Context, state *conversation.State, product transport.Product, message string) string {
	state.Cart.AddItem(domain.CartItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    1,
		UnitPrice:   product.Price,
	})

	if f.upsell.ShouldOffer(state.Cart.ItemCount(), state.UpsellOffered, state.Cart.Total()) {
		suggestions := f.upsell.Suggestions(ctx, []string{product.Category}, 1)
		if len(suggestions) > 0 {
			state.UpsellOffered = true
			pitch := f.upsell.Message(product.Name, suggestions[0])
			return f.render(ctx, "collecting_items",
				fmt.Sprintf("Agregué %s al carrito. Carrito: %s", product.Name, state.Cart.Summary()),
				message,
				fmt.Sprintf("Confirma que agregaste el producto. Sugiere: %s. Pregunta si quiere algo más.", pitch),
				fmt.Sprintf("🛒 ¡Agregado! %s - $%.2f\n\n%s\n\n%s\n\n¿Algo más o procedemos? 🤘",
					product.Name, product.Price, state.Cart.Summary(), pitch))
		}
	}

	return f.render(ctx, "collecting_items",
		fmt.Sprintf("Agregué %s ($%.2f) al carrito. Carrito actual: %s", product.Name, product.Price, state.Cart.Summary()),
		message,
		"Confirma entusiastamente que agregaste el producto. Muestra el resumen del carrito. Pregunta si quiere algo más o si procedemos.",
		fmt.Sprintf("🛒 ¡A todo dar! Agregué %s - $%.2f\n\n%s\n\n¿Algo más o procedemos con tu pedido? 🤘",
			product.Name, product.Price, state.Cart.Summary()))
}

func (f *Flow) removeFromCart(ctx context.Context, state *conversation.State, target, message string) string {
	for _, item := range state.Cart.Items {
		if strings.Contains(strings.ToLower(item.ProductName), target) {
			state.Cart.RemoveItem(item.ProductID)
			return f.render(ctx, "collecting_items",
				fmt.Sprintf("Quité %s del carrito. Carrito: %s", item.ProductName, state.Cart.Summary()),
				message,
				"Confirma que quitaste el producto y muestra el carrito actualizado. Pregunta si quiere algo más.",
				fmt.Sprintf("🗑️ ¡Listo! Quité %s.\n\n%s\n\n¿Algo más, humano-amigo?", item.ProductName, state.Cart.Summary()))
		}
	}

	return f.render(ctx, "collecting_items",
		fmt.Sprintf("No encontré '%s' en el carrito. Carrito: %s", target, state.Cart.Summary()),
		message,
		"Dile que no encontraste ese producto en su carrito y muestra lo que lleva.",
		fmt.Sprintf("🐕 Mmm, no veo '%s' en tu carrito.\n\n%s", target, state.Cart.Summary()))
}

func (f *Flow) confirmItems(ctx context.Context, state *conversation.State, message string) string {
	messageLower := strings.ToLower(message)

	if containsAnyWord(messageLower, affirmativeWords) {
		state.Stage = domain.StageSelectingDelivery
		return f.render(ctx, "confirming_items",
			"Cliente confirmó el carrito: "+state.Cart.Summary(),
			message,
			"Celebra que confirmó. Pregunta cómo quiere recibir: Pickup (recoger en tienda) o Domicilio (se lo llevan).",
			"🤘 ¡A todo dar! Tu carrito está listo.\n\n¿Cómo prefieres recibirlo?\n🏪 **Pickup** - Recoges en tienda\n🚚 **Domicilio** - Te lo llevamos")
	}

	if containsAnyWord(messageLower, negativeWords) {
		state.Stage = domain.StageCollectingItems
		return f.render(ctx, "confirming_items",
			"Cliente quiere modificar el carrito: "+state.Cart.Summary(),
			message,
			"Dile que está bien modificar. Explica que puede escribir 'quitar [producto]' o agregar algo nuevo.",
			"🐕 ¡Claro! ¿Qué quieres cambiar?\n- Escribe 'quitar [producto]' para eliminarlo\n- O dime qué producto agregar")
	}

	// Anything else reads as another product request.
	return f.collectItems(ctx, state, message)
}

func (f *Flow) selectDelivery(ctx context.Context, state *conversation.State, message string) string {
	messageLower := strings.ToLower(message)

	if containsAnyWord(messageLower, pickupWords) {
		state.Cart.DeliveryType = domain.DeliveryPickup
		state.Stage = domain.StageSelectingBranch
		branchesText := f.branches.FormatAll()
		return f.render(ctx, "selecting_delivery",
			"Cliente eligió pickup. Sucursales disponibles:\n"+branchesText,
			message,
			"Confirma pickup en tienda. Muestra las sucursales y pregunta en cuál le queda mejor.",
			fmt.Sprintf("🏪 ¡Genial! Pickup en tienda.\n\n%s\n¿En cuál sucursal te queda mejor?", branchesText))
	}

	if containsAnyWord(messageLower, deliveryWords) {
		state.Cart.DeliveryType = domain.DeliveryDelivery
		state.Stage = domain.StageCollectingAddress
		state.WaitingFor = conversation.WaitingAddress

		shippingNote := ""
		if subtotal := state.Cart.Subtotal(); subtotal < domain.FreeShippingThreshold {
			shippingNote = fmt.Sprintf(" (¡Tip! Con $%.2f más el envío es gratis)", domain.FreeShippingThreshold-subtotal)
		}

		return f.render(ctx, "selecting_delivery",
			fmt.Sprintf("Cliente eligió domicilio. Subtotal: $%.2f.%s", state.Cart.Subtotal(), shippingNote),
			message,
			"Confirma envío a domicilio. Pide la dirección completa (calle, número, colonia, ciudad).",
			fmt.Sprintf("🚚 ¡Perfecto! Te lo llevamos a domicilio.%s\n\n¿Cuál es tu dirección completa? (calle, número, colonia, ciudad)", shippingNote))
	}

	return f.render(ctx, "selecting_delivery",
		"No entendí el tipo de entrega que quiere el cliente",
		message,
		"Dile amablemente que no entendiste. Pregunta si prefiere Pickup (recoger en tienda) o Domicilio (se lo llevan).",
		"🐕 ¡Guau! No capté bien, humano-amigo. ¿Prefieres:\n🏪 **Pickup** - Recoges en tienda\n🚚 **Domicilio** - Te lo llevamos")
}

func (f *Flow) collectAddress(ctx context.Context, state *conversation.State, message string) string {
	if len([]rune(message)) < 10 {
		return f.render(ctx, "collecting_address",
			"La dirección proporcionada es muy corta",
			message,
			"Dile amablemente que la dirección parece muy corta. Necesitas: calle, número, colonia y ciudad.",
			"🐕 ¡Guau! Esa dirección parece muy cortita.\nNecesito: calle, número, colonia y ciudad para no perderme 📍")
	}

	state.Cart.DeliveryAddress = message
	state.Stage = domain.StageSelectingPayment
	state.WaitingFor = ""

	return f.render(ctx, "collecting_address",
		fmt.Sprintf("Dirección registrada: %s. Carrito: %s", message, state.Cart.Summary()),
		message,
		"Confirma la dirección. Muestra resumen del pedido. Pregunta cómo quiere pagar: Efectivo, Transferencia o Tarjeta.",
		fmt.Sprintf("📍 ¡Anotado!\n%s\n\n%s\n\n¿Cómo quieres pagar?\n💵 **Efectivo** - Pagas al recibir\n💳 **Transferencia** - Te paso los datos\n💳 **Tarjeta** - Pagas al recibir",
			message, state.Cart.Summary()))
}

func (f *Flow) selectBranch(ctx context.Context, state *conversation.State, message string) string {
	messageLower := strings.ToLower(message)

	var selected *branches.Branch
	for _, branch := range f.branches.All() {
		if strings.Contains(messageLower, branch.ID) || strings.Contains(messageLower, strings.ToLower(branch.Name)) {
			b := branch
			selected = &b
			break
		}
	}

	if selected == nil {
		// Fall back to matching distinctive address words.
	matching:
		for _, branch := range f.branches.All() {
			for _, word := range strings.Fields(strings.ToLower(branch.Address)) {
				if len([]rune(word)) > 3 && strings.Contains(messageLower, word) {
					b := branch
					selected = &b
					break matching
				}
			}
		}
	}

	if selected == nil {
		branchesText := f.branches.FormatAll()
		return f.render(ctx, "selecting_branch",
			"No encontré la sucursal mencionada. Sucursales disponibles:\n"+branchesText,
			message,
			"Dile amablemente que no ubicaste esa sucursal. Muestra las opciones disponibles.",
			fmt.Sprintf("🐕 ¡Guau! No ubiqué esa sucursal. Aquí están las opciones:\n\n%s\n¿Cuál te queda mejor?", branchesText))
	}

	state.Cart.BranchID = selected.ID
	state.Cart.BranchName = selected.Name
	state.Stage = domain.StageSelectingPayment

	return f.render(ctx, "selecting_branch",
		fmt.Sprintf("Sucursal seleccionada: %s - %s. Horario: %s. Carrito: %s",
			selected.Name, selected.Address, selected.Hours, state.Cart.Summary()),
		message,
		"Confirma la sucursal con su dirección y horario. Muestra resumen del pedido. Pregunta cómo quiere pagar.",
		fmt.Sprintf("🏪 ¡Perfecto! Recoges en **%s**\n📍 %s\n🕐 %s\n\n%s\n\n¿Cómo quieres pagar?\n💵 **Efectivo** | 💳 **Transferencia** | 💳 **Tarjeta**",
			selected.Name, selected.Address, selected.Hours, state.Cart.Summary()))
}

func (f *Flow) selectPayment(ctx context.Context, state *conversation.State, message string) string {
	messageLower := strings.ToLower(message)

	switch {
	case containsAnyWord(messageLower, []string{"efectivo", "cash"}):
		state.Cart.PaymentMethod = domain.PaymentCash
		return f.finalize(ctx, state, "efectivo")

	case containsAnyWord(messageLower, []string{"transferencia", "transfer", "spei"}):
		state.Cart.PaymentMethod = domain.PaymentTransfer
		state.Stage = domain.StageWaitingPaymentProof
		state.WaitingFor = conversation.WaitingPhoto
		return f.render(ctx, "selecting_payment",
			fmt.Sprintf("Cliente eligió transferencia. Total: $%.2f", state.Cart.Total()),
			message,
			"Confirma transferencia. Da los datos bancarios: BBVA, Cuenta 0123456789, CLABE 012345678901234567, Animalicha SA de CV. Pide que mande foto del comprobante.",
			fmt.Sprintf("💳 ¡Perfecto! Aquí están los datos para transferencia:\n\n🏦 Banco: BBVA\n📝 Cuenta: 0123456789\n🔢 CLABE: 012345678901234567\n👤 Nombre: Animalicha SA de CV\n\n💰 Total: **$%.2f**\n\nCuando hagas la transferencia, mándame foto del comprobante 📸",
				state.Cart.Total()))

	case containsAnyWord(messageLower, []string{"tarjeta", "card", "débito", "crédito"}):
		state.Cart.PaymentMethod = domain.PaymentCard
		return f.finalize(ctx, state, "tarjeta")

	default:
		return f.render(ctx, "selecting_payment",
			"No entendí el método de pago",
			message,
			"Dile amablemente que no entendiste. Pregunta si prefiere Efectivo, Transferencia o Tarjeta.",
			"🐕 ¡Guau! No capté bien. ¿Cómo prefieres pagar?\n💵 **Efectivo**\n💳 **Transferencia**\n💳 **Tarjeta**")
	}
}

func (f *Flow) receivePaymentProof(ctx context.Context, state *conversation.State, message string) string {
	// Anything the customer sends here counts as the proof; a human
	// verifies it out of band.
	state.Cart.PaymentProofReceived = true
	state.WaitingFor = ""
	return f.finalize(ctx, state, "transferencia (comprobante recibido)")
}

func (f *Flow) confirmOrder(ctx context.Context, state *conversation.State, message string) string {
	messageLower := strings.ToLower(message)

	if containsAnyWord(messageLower, []string{"sí", "si", "confirmo", "ok", "listo"}) {
		payment := string(state.Cart.PaymentMethod)
		if payment == "" {
			payment = "efectivo"
		}
		return f.finalize(ctx, state, payment)
	}

	return f.render(ctx, "confirming_order",
		"Esperando confirmación final. Carrito: "+state.Cart.Summary(),
		message,
		"Pregunta si confirma el pedido. Si dice que quiere cambiar algo, dile qué puede hacer.",
		"🐕 ¿Confirmamos el pedido? Responde 'sí' para confirmar o dime qué quieres cambiar.")
}

func (f *Flow) finalize(ctx context.Context, state *conversation.State, paymentMethod string) string {
	orderNumber := "RUF-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])

	var deliveryInfo string
	if state.Cart.DeliveryType == domain.DeliveryPickup {
		deliveryInfo = "🏪 Recoger en: " + state.Cart.BranchName
	} else {
		deliveryInfo = "🚚 Envío a: " + state.Cart.DeliveryAddress
	}

	state.Stage = domain.StageCompleted
	state.Ended = true

	f.bus.Publish(ctx, events.OrderPlaced{
		BaseEvent:       events.NewBaseEvent(),
		OrderNumber:     orderNumber,
		ThreadID:        state.ThreadID,
		Channel:         state.Channel,
		DeliveryMethod:  string(state.Cart.DeliveryType),
		DeliveryAddress: state.Cart.DeliveryAddress,
		PickupBranch:    state.Cart.BranchName,
		PaymentMethod:   paymentMethod,
		ItemsSummary:    itemsSummary(&state.Cart),
		Subtotal:        state.Cart.Subtotal(),
		ShippingCost:    state.Cart.ShippingCost(),
		Total:           state.Cart.Total(),
	})

	f.log.Info("order finalized",
		"order_number", orderNumber,
		"thread_id", state.ThreadID,
		"total", state.Cart.Total())

	return f.render(ctx, "completed",
		fmt.Sprintf("Pedido #%s confirmado. %s. Pago: %s. %s", orderNumber, deliveryInfo, paymentMethod, state.Cart.Summary()),
		"",
		"Celebra el pedido confirmado. Muestra el número de pedido, tipo de entrega y forma de pago. Agradece y despídete rockero.",
		fmt.Sprintf("🎉 **¡PEDIDO CONFIRMADO!** 🎉\n\n📦 Pedido: **%s**\n%s\n💳 Pago: %s\n\n%s\n\n¡Gracias, humano-amigo! Tu peludo va a estar feliz 🐕\n¡Rock on! 🤘🐾",
			orderNumber, deliveryInfo, paymentMethod, state.Cart.Summary()))
}

// render asks the responder for a stage reply and falls back to the
// canned text when the oracle is unavailable.
func (f *Flow) render(ctx context.Context, stage, orderContext, userMessage, task, fallback string) string {
	reply, err := f.responder.Reply(ctx, stage, orderContext, userMessage, task)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			f.log.OracleError("order_reply", err)
		}
		return fallback
	}
	return reply
}

func itemsSummary(cart *domain.Cart) string {
	lines := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, fmt.Sprintf("%dx %s ($%.2f)", item.Quantity, item.ProductName, item.Subtotal()))
	}
	return strings.Join(lines, ", ")
}

func containsAnyWord(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
