package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// PromptMessage is one element of the conversation context handed to the
// generation service.
type PromptMessage struct {
	Role    string // "user" or "model"
	Content string
}

// GenerationService is the opaque language-generation capability consumed by
// the orchestrator. Both calls are synchronous and may fail with a
// GenerationError of kind timeout or transport_error; the returned text is
// raw and must never be trusted before parsing. Implementations never retry.
type GenerationService interface {
	GenerateStructuredTurn(ctx context.Context, systemInstruction string, messages []PromptMessage) (string, error)
	GenerateStructuredSummary(ctx context.Context, systemInstruction, summaryPrompt string) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

func NewGeminiService(apiKey, modelName string, logger *zap.Logger) (GenerationService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// GenerateStructuredTurn implements GenerationService.
func (g *geminiService) GenerateStructuredTurn(ctx context.Context, systemInstruction string, messages []PromptMessage) (string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		contents = append(contents, &genai.Content{
			Role:  msg.Role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return g.generate(ctx, systemInstruction, contents)
}

// GenerateStructuredSummary implements GenerationService.
func (g *geminiService) GenerateStructuredSummary(ctx context.Context, systemInstruction, summaryPrompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: summaryPrompt}},
		},
	}
	return g.generate(ctx, systemInstruction, contents)
}

func (g *geminiService) generate(ctx context.Context, systemInstruction string, contents []*genai.Content) (string, error) {
	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  2048,
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", g.classify(ctx, err)
	}
	if resp == nil {
		return "", newGenerationError(GenerationTransport, "no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", newGenerationError(GenerationTransport, "no text content in response")
	}

	g.logger.Debug("gemini response received", zap.Int("chars", len(text)))
	return text, nil
}

func (g *geminiService) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &GenerationError{Kind: GenerationTimeout, Err: err}
	}
	return &GenerationError{Kind: GenerationTransport, Err: err}
}
