// Package agent wraps the LLM behind the bot's persona and tools. The
// rest of the application talks to the Oracle, never to the model.
package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
	"google.golang.org/genai"

	"github.com/google/uuid"

	"ruffo_chat_backend/internal/branches"
	catalogservice "ruffo_chat_backend/internal/catalog/service"
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/internal/conversation"
	"ruffo_chat_backend/platform/ai/openaichat"
	"ruffo_chat_backend/platform/apperr"
	"ruffo_chat_backend/platform/logger"
)

// Oracle is the ADK agent that renders all of the bot's free-form
// replies and serves as the fallback intent classifier.
type Oracle struct {
	agent          agent.Agent
	runner         *runner.Runner
	sessionService session.Service
	appName        string
	log            *logger.Logger
}

// Config carries the model settings for the oracle.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// NewOracle builds the ADK agent with the chat model and the catalog,
// branch and cart tools.
func NewOracle(cfg Config, catalog *catalogservice.Service, branchSvc *branches.Service, store conversation.Store, log *logger.Logger) *Oracle {
	model := openaichat.NewModel(openaichat.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	})

	type searchInput struct {
		Query      string `json:"query"`
		PetType    string `json:"petType,omitempty"`
		MaxResults int    `json:"maxResults,omitempty"`
	}
	type productsOutput struct {
		Products []productSummary `json:"products"`
	}
	searchTool, err := functiontool.New(functiontool.Config{
		Name:        "SearchProducts",
		Description: "Searches the store catalog. Use a short Spanish or English query plus the customer's pet type.",
	}, func(ctx tool.Context, input searchInput) (productsOutput, error) {
		max := input.MaxResults
		if max <= 0 {
			max = 5
		}
		products := catalog.Search(context.Background(), input.Query, input.PetType, max)
		return productsOutput{Products: summarize(products)}, nil
	})
	if err != nil {
		log.Error("failed to create SearchProducts tool", "error", err)
	}

	type productIDInput struct {
		ProductID string `json:"productId"`
	}
	type productOutput struct {
		Product *productSummary `json:"product,omitempty"`
		Message string          `json:"message,omitempty"`
	}
	getProductTool, err := functiontool.New(functiontool.Config{
		Name:        "GetProductByID",
		Description: "Looks up one product by its catalog key or barcode.",
	}, func(ctx tool.Context, input productIDInput) (productOutput, error) {
		product, err := catalog.GetByID(context.Background(), input.ProductID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return productOutput{Message: "producto no encontrado"}, nil
			}
			return productOutput{Message: "catálogo no disponible por el momento"}, nil
		}
		s := summarizeOne(*product)
		return productOutput{Product: &s}, nil
	})
	if err != nil {
		log.Error("failed to create GetProductByID tool", "error", err)
	}

	type categoryInput struct {
		Category   string `json:"category"`
		PetType    string `json:"petType,omitempty"`
		MaxResults int    `json:"maxResults,omitempty"`
	}
	categoryTool, err := functiontool.New(functiontool.Config{
		Name:        "GetProductsByCategory",
		Description: "Lists catalog products whose category or line matches the given name.",
	}, func(ctx tool.Context, input categoryInput) (productsOutput, error) {
		products := catalog.ListByCategory(context.Background(), input.Category, input.PetType, input.MaxResults)
		return productsOutput{Products: summarize(products)}, nil
	})
	if err != nil {
		log.Error("failed to create GetProductsByCategory tool", "error", err)
	}

	type noInput struct{}
	type branchesOutput struct {
		Branches []branches.Branch `json:"branches"`
	}
	allBranchesTool, err := functiontool.New(functiontool.Config{
		Name:        "GetAllBranches",
		Description: "Returns every store branch with address, phone and hours.",
	}, func(ctx tool.Context, _ noInput) (branchesOutput, error) {
		return branchesOutput{Branches: branchSvc.All()}, nil
	})
	if err != nil {
		log.Error("failed to create GetAllBranches tool", "error", err)
	}

	type branchIDInput struct {
		BranchID string `json:"branchId"`
	}
	type branchOutput struct {
		Branch  *branches.Branch `json:"branch,omitempty"`
		Message string           `json:"message,omitempty"`
	}
	branchByIDTool, err := functiontool.New(functiontool.Config{
		Name:        "GetBranchByID",
		Description: "Looks up one store branch by its identifier.",
	}, func(ctx tool.Context, input branchIDInput) (branchOutput, error) {
		branch := branchSvc.ByID(input.BranchID)
		if branch == nil {
			return branchOutput{Message: "sucursal no encontrada"}, nil
		}
		return branchOutput{Branch: branch}, nil
	})
	if err != nil {
		log.Error("failed to create GetBranchByID tool", "error", err)
	}

	type locationInput struct {
		Location string `json:"location"`
	}
	nearestTool, err := functiontool.New(functiontool.Config{
		Name:        "FindNearestBranch",
		Description: "Finds the branch closest to the location the customer mentions.",
	}, func(ctx tool.Context, input locationInput) (branchOutput, error) {
		branch := branchSvc.Nearest(input.Location)
		return branchOutput{Branch: &branch}, nil
	})
	if err != nil {
		log.Error("failed to create FindNearestBranch tool", "error", err)
	}

	type cartInput struct {
		ThreadID string `json:"threadId"`
		Channel  string `json:"channel,omitempty"`
	}
	type cartOutput struct {
		Summary string `json:"summary"`
	}
	cartTool, err := functiontool.New(functiontool.Config{
		Name:        "GetCartStatus",
		Description: "Returns the current cart summary for a conversation thread.",
	}, func(ctx tool.Context, input cartInput) (cartOutput, error) {
		channel := input.Channel
		if channel == "" {
			channel = "http"
		}
		state, err := store.Load(context.Background(), input.ThreadID, channel)
		if err != nil {
			return cartOutput{}, err
		}
		if state.Cart.ItemCount() == 0 {
			return cartOutput{Summary: "El carrito está vacío."}, nil
		}
		return cartOutput{Summary: state.Cart.Summary()}, nil
	})
	if err != nil {
		log.Error("failed to create GetCartStatus tool", "error", err)
	}

	tools := make([]tool.Tool, 0, 7)
	for _, t := range []tool.Tool{searchTool, getProductTool, categoryTool, allBranchesTool, branchByIDTool, nearestTool, cartTool} {
		if t != nil {
			tools = append(tools, t)
		}
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "Ruffo",
		Model:       model,
		Description: "Conversational sales agent for the pet store.",
		Instruction: systemPrompt,
		Tools:       tools,
	})
	if err != nil {
		log.Error("failed to create ADK agent", "error", err)
	}

	appName := "ruffo_chat"
	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		log.Error("failed to create ADK runner", "error", err)
	}

	return &Oracle{
		agent:          adkAgent,
		runner:         r,
		sessionService: sessionService,
		appName:        appName,
		log:            log,
	}
}

// Reply renders a guided reply for an order stage or routed intent.
func (o *Oracle) Reply(ctx context.Context, stage, orderContext, userMessage, task string) (string, error) {
	situation := orderContext
	if stage != "" {
		situation = "Etapa del pedido: " + stage + "\n" + orderContext
	}
	return o.run(ctx, "reply", fmt.Sprintf(replyPrompt, situation, userMessage, task))
}

// Converse renders a free-form conversational turn with the tools
// available to the model.
func (o *Oracle) Converse(ctx context.Context, threadID, contextStr, chatHistory, userMessage string) (string, error) {
	return o.run(ctx, "thread-"+threadID, fmt.Sprintf(conversePrompt, contextStr, chatHistory, userMessage))
}

// ClassifyIntent asks the model for a bare intent label.
func (o *Oracle) ClassifyIntent(ctx context.Context, contextStr, message string) (string, error) {
	label, err := o.run(ctx, "classifier", fmt.Sprintf(intentPrompt, contextStr, message))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(label)), nil
}

func (o *Oracle) run(ctx context.Context, userID, prompt string) (string, error) {
	if o.runner == nil || o.sessionService == nil {
		return "", fmt.Errorf("oracle is not initialized")
	}

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	// Fresh session per invocation; conversation memory lives in the
	// thread state, not in the ADK session.
	sessionID := uuid.New().String()
	_, err := o.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   o.appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	var output string
	for event, err := range o.runner.Run(ctx, userID, sessionID, userMessage, agent.RunConfig{StreamingMode: agent.StreamingModeNone}) {
		if err != nil {
			return "", err
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				output += part.Text
			}
		}
	}

	return strings.TrimSpace(output), nil
}

type productSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand,omitempty"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit,omitempty"`
}

func summarize(products []transport.Product) []productSummary {
	out := make([]productSummary, 0, len(products))
	for _, p := range products {
		out = append(out, summarizeOne(p))
	}
	return out
}

func summarizeOne(p transport.Product) productSummary {
	return productSummary{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    p.Price,
		Unit:     p.Unit,
	}
}
