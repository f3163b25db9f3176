// Package service orchestrates one chat turn: load the thread state,
// classify the message, route it and persist the result.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"ruffo_chat_backend/internal/branches"
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/internal/chat/intent"
	"ruffo_chat_backend/internal/conversation"
	"ruffo_chat_backend/internal/events"
	"ruffo_chat_backend/internal/order/domain"
	orderservice "ruffo_chat_backend/internal/order/service"
	"ruffo_chat_backend/platform/apperr"
	"ruffo_chat_backend/platform/logger"
)

var farewells = []string{
	"¡Rock on, humano-amigo! 🤘🐾\nCuida mucho a tu peludo y vuelve pronto a Animalicha.\n¡Guau, guau! 🐕",
	"¡Fue un gusto atenderte! 🎸\nRecuerda que aquí estoy para lo que necesites.\n¡Nos vemos pronto! 🐾",
	"¡Gracias por visitarme! 🐕\nEspero que tu mascota disfrute mucho.\n¡Rock on y cuídate! 🤘",
	"¡Hasta la próxima, humano-amigo! 🎸🐾\nAquí estaré ladrando cuando me necesites.\n¡Guau! 🐕",
}

var farewellsWithOrder = []string{
	"¡Gracias por tu compra! 🎉🐾\nTu peludo va a estar muy feliz.\n¡Rock on y nos vemos pronto! 🤘🐕",
	"¡Pedido listo! 📦✨\nFue un placer atenderte, humano-amigo.\n¡Cuida mucho a tu mascota! 🐾🎸",
	"¡Genial! Tu pedido está en camino (o esperándote) 🚚🏪\n¡Gracias por elegir Animalicha!\n¡Guau, guau! 🐕🤘",
}

var escalationMessages = map[string]string{
	"problem": "😔 Lamento mucho que tengas este problema, humano-amigo.\n\n" +
		"Voy a pasar tu caso a mi equipo humano para que te ayuden mejor. " +
		"Ellos son expertos y te contactarán pronto.\n\n" +
		"📞 También puedes llamar directamente al: **55-1234-5678**\n\n" +
		"¡Prometo que lo resolveremos! 🐾",
	"wholesaler": "🏪 ¡Ah, eres mayorista! Qué genial, humano-amigo.\n\n" +
		"Para atención de mayoreo, mi compañera **Frida** es la experta. " +
		"Ella te dará los mejores precios y atención personalizada.\n\n" +
		"📧 Contacta a Frida: mayoreo@animalicha.com\n" +
		"📞 O llama al: **55-8765-4321** ext. 200\n\n" +
		"¡Gracias por tu interés en Animalicha! 🤘",
	"complex": "🤔 Esta situación necesita atención especial, humano-amigo.\n\n" +
		"Voy a conectarte con mi equipo humano que puede ayudarte mejor " +
		"con esto. Te contactarán muy pronto.\n\n" +
		"📞 Si es urgente: **55-1234-5678**\n\n" +
		"¡No te preocupes, lo resolveremos! 🐾",
}

// Oracle is the LLM surface the chat service needs.
type Oracle interface {
	Reply(ctx context.Context, stage, orderContext, userMessage, task string) (string, error)
	Converse(ctx context.Context, threadID, contextStr, chatHistory, userMessage string) (string, error)
}

// Catalog is the slice of the catalog service used for inquiries.
type Catalog interface {
	Search(ctx context.Context, query, petType string, maxResults int) []transport.Product
}

// Service handles one inbound chat message end to end.
type Service struct {
	store      conversation.Store
	classifier *intent.Classifier
	oracle     Oracle
	flow       *orderservice.Flow
	catalog    Catalog
	branches   *branches.Service
	bus        events.Bus
	log        *logger.Logger

	mu      sync.Mutex
	threads map[string]*sync.Mutex
}

// New creates the chat service.
func New(store conversation.Store, classifier *intent.Classifier, oracle Oracle, flow *orderservice.Flow, catalog Catalog, branchSvc *branches.Service, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		classifier: classifier,
		oracle:     oracle,
		flow:       flow,
		catalog:    catalog,
		branches:   branchSvc,
		bus:        bus,
		log:        log,
		threads:    make(map[string]*sync.Mutex),
	}
}

// HandleMessage processes one inbound message for a thread and returns
// the reply. Messages for the same thread are serialized.
func (s *Service) HandleMessage(ctx context.Context, threadID, channel, message string) (string, error) {
	lock := s.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()

	state, err := s.store.Load(ctx, threadID, channel)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to process message", err).WithOp("load thread state")
	}

	state.Memory.AddMessage(message)
	state.Memory.ExtractPetInfo(message)

	inOrderFlow := state.Stage != domain.StageUnset && state.Stage != domain.StageCompleted
	contextStr := state.Memory.ContextString(string(state.Stage), state.Cart.ItemCount() > 0, state.WaitingFor)

	detected := s.classifier.Classify(ctx, message, contextStr, inOrderFlow)
	state.PreviousIntent = state.Intent
	state.Intent = string(detected)

	reply := s.route(ctx, state, detected, message, contextStr)

	state.LastReply = reply
	state.IsNewConversation = false

	if err := s.store.Save(ctx, state); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to process message", err).WithOp("save thread state")
	}

	s.log.ChatTurn(threadID, channel, string(detected), string(state.Stage), float64(time.Since(started).Milliseconds()))
	return reply, nil
}

func (s *Service) route(ctx context.Context, state *conversation.State, detected intent.Intent, message, contextStr string) string {
	switch detected {
	case intent.BuyOrder, intent.PaymentProof:
		return s.flow.HandleStage(ctx, state, message)

	case intent.Farewell:
		return s.farewell(state)

	case intent.BranchInfo:
		return s.branchInfo(message)

	case intent.ProblemEscalation, intent.Wholesaler:
		return s.escalate(ctx, state, detected, message)

	case intent.ProductInquiry:
		return s.productInquiry(ctx, state, message)

	case intent.OrderStatus:
		return s.converse(ctx, state, contextStr, message)

	default:
		// Greetings and anything unclassified get the conversational
		// path, which has the catalog tools available.
		return s.greet(ctx, state, detected, message)
	}
}

func (s *Service) greet(ctx context.Context, state *conversation.State, detected intent.Intent, message string) string {
	var situation, task string
	switch {
	case detected == intent.Unknown:
		situation = "El usuario envió un mensaje que no entendí bien."
		if state.Memory.PetType != "" {
			situation += " Sé que tiene un " + state.Memory.PetType + "."
		}
		task = "Responde de forma amigable y pregunta cómo puedes ayudarle. Menciona que puedes: buscar productos, dar info de sucursales, o ayudar con pedidos."
	case state.IsNewConversation:
		situation = "Es la primera vez que este cliente me habla."
		task = "Salúdalo calurosamente, preséntate como Ruffo de Animalicha y pregunta cómo puedes ayudarle o qué mascota tiene."
	default:
		situation = "El cliente ha hablado conmigo antes."
		if state.Memory.PetType != "" {
			situation += " Tiene un " + state.Memory.PetType + "."
		}
		task = "Salúdalo como a un amigo que regresa y pregunta cómo puedes ayudarle hoy."
	}

	reply, err := s.oracle.Reply(ctx, "", situation, message, task)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			s.log.OracleError("greeting", err)
		}
		return "¡Guau, guau! 🐾 Soy Ruffo, el perro más rockero de Animalicha 🤘\n¿En qué puedo ayudarte hoy?"
	}
	return reply
}

func (s *Service) farewell(state *conversation.State) string {
	pool := farewells
	if state.Stage == domain.StageCompleted {
		pool = farewellsWithOrder
	}
	state.Ended = true
	return pool[rand.Intn(len(pool))]
}

func (s *Service) branchInfo(message string) string {
	messageLower := strings.ToLower(message)

	locationQuery := false
	for _, kw := range []string{"cerca", "cercana", "más cerca"} {
		if strings.Contains(messageLower, kw) {
			locationQuery = true
			break
		}
	}

	if locationQuery {
		branch := s.branches.Nearest(message)
		return fmt.Sprintf("🏪 La sucursal más cercana es:\n\n%s\n¿Necesitas algo más, humano-amigo? 🐾",
			s.branches.FormatBranch(branch))
	}

	return s.branches.FormatAll() + "\n¿En cuál te gustaría recoger o cuál te queda más cerca? 🐾"
}

func (s *Service) escalate(ctx context.Context, state *conversation.State, detected intent.Intent, message string) string {
	kind := "complex"
	reason := "Situación compleja"

	switch {
	case detected == intent.Wholesaler || strings.Contains(strings.ToLower(message), "mayorist"):
		kind = "wholesaler"
		reason = "Cliente mayorista"
	case detected == intent.ProblemEscalation:
		kind = "problem"
		reason = "Problema reportado: " + truncate(message, 100)
	}

	state.NeedsEscalation = true
	state.EscalationReason = reason

	s.bus.Publish(ctx, events.EscalationRaised{
		BaseEvent: events.NewBaseEvent(),
		ThreadID:  state.ThreadID,
		Channel:   state.Channel,
		Reason:    reason,
		Message:   message,
	})

	return escalationMessages[kind]
}

func (s *Service) productInquiry(ctx context.Context, state *conversation.State, message string) string {
	memory := &state.Memory

	// Ask before searching. A useful query needs the pet and the
	// product type.
	if memory.PetType == "" {
		return s.inquiryReply(ctx, state, message,
			"El usuario pregunta por productos pero NO sabemos qué mascota tiene.",
			"Pregúntale de forma amigable QUÉ MASCOTA tiene (¿perro o gato?). NO sugieras productos aún.",
			"🐾 ¡Guau! ¿Para qué mascota buscas? ¿Perro o gato?")
	}

	if memory.ProductTypeNeeded == "" {
		return s.inquiryReply(ctx, state, message,
			fmt.Sprintf("El usuario tiene un %s. NO sabemos qué tipo de producto busca.", memory.PetType),
			fmt.Sprintf("Pregúntale qué tipo de producto busca para su %s (comida, snacks, juguetes, etc). NO sugieras productos específicos aún.", memory.PetType),
			fmt.Sprintf("🐾 ¡Genial! ¿Qué buscas para tu %s? ¿Comida, snacks, juguetes...?", memory.PetType))
	}

	query := memory.SearchQuery()
	products := s.catalog.Search(ctx, query, memory.PetType, 5)
	if len(products) == 0 {
		// Broaden to just the product type.
		products = s.catalog.Search(ctx, memory.ProductTypeNeeded, memory.PetType, 5)
	}

	if len(products) == 0 {
		return s.inquiryReply(ctx, state, message,
			fmt.Sprintf("El usuario tiene un %s y busca %s, pero no encontré productos.", memory.PetType, memory.ProductTypeNeeded),
			"Dile que no encontraste productos y pide que lo describa diferente.",
			fmt.Sprintf("🐕 ¡Woof! No encontré %s para tu %s. ¿Me lo describes diferente?", memory.ProductTypeNeeded, memory.PetType))
	}

	state.FoundProducts = products
	state.LastSearchQuery = query

	var list strings.Builder
	for i, p := range products {
		fmt.Fprintf(&list, "%d. %s - $%.2f\n", i+1, p.Name, p.Price)
	}

	reply := s.inquiryReply(ctx, state, message,
		fmt.Sprintf("El usuario tiene un %s y busca %s. Productos encontrados:\n%s", memory.PetType, memory.ProductTypeNeeded, list.String()),
		"Muestra los productos encontrados de forma amigable y pregunta cuál le interesa.",
		"")

	// Make sure the concrete options always reach the customer, even
	// when the model paraphrases around them.
	if !mentionsAny(reply, products) {
		reply = strings.TrimSpace(reply)
		if reply != "" {
			reply += "\n\n"
		}
		reply += fmt.Sprintf("🔍 Encontré estas opciones:\n%s\n¿Cuál te interesa? 🐾", list.String())
	}

	return reply
}

func (s *Service) inquiryReply(ctx context.Context, state *conversation.State, message, situation, task, fallback string) string {
	reply, err := s.oracle.Reply(ctx, "", situation, message, task)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			s.log.OracleError("product_inquiry", err)
		}
		return fallback
	}
	return reply
}

func (s *Service) converse(ctx context.Context, state *conversation.State, contextStr, message string) string {
	history := strings.Join(state.Memory.RecentMessages, "\n")
	reply, err := s.oracle.Converse(ctx, state.ThreadID, contextStr, history, message)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			s.log.OracleError("converse", err)
		}
		return "🐕 ¡Woof! Perdona, tuve un problemita. ¿Puedes repetirme qué necesitas?"
	}
	return reply
}

func (s *Service) threadLock(threadID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.threads[threadID]
	if !ok {
		lock = &sync.Mutex{}
		s.threads[threadID] = lock
	}
	return lock
}

func mentionsAny(reply string, products []transport.Product) bool {
	for _, p := range products {
		name := p.Name
		if len([]rune(name)) > 15 {
			name = string([]rune(name)[:15])
		}
		if strings.Contains(reply, name) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
