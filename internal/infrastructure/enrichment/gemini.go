package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-flash"

var descriptionPrompt = strings.TrimSpace(dedent.Dedent(`
	Você escreve descrições curtas para uma loja online de informática.
	Escreva uma descrição objetiva em português para o produto abaixo,
	com no máximo 3 frases e sem inventar especificações que não estejam no nome.
	Responda apenas com o texto da descrição, sem markdown.

	Produto: %s
`))

// contentGenerator is the part of the Gemini client the enricher needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiEnricher writes a description from the product name with Gemini
type GeminiEnricher struct {
	models contentGenerator
	model  string
}

// NewGeminiEnricher creates a Gemini-backed enricher
func NewGeminiEnricher(ctx context.Context, apiKey, model string) (*GeminiEnricher, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiEnricher(client.Models, model), nil
}

func newGeminiEnricher(models contentGenerator, model string) *GeminiEnricher {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiEnricher{models: models, model: model}
}

// Enrich asks the model for a short description of req.Name
func (g *GeminiEnricher) Enrich(ctx context.Context, req domain.EnrichmentRequest) (*domain.EnrichmentResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNoDescription
	}

	prompt := fmt.Sprintf(descriptionPrompt, name)
	result, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini call failed: %v", domain.ErrEnrichmentFailed, err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, domain.ErrNoDescription
	}

	desc := cleanDescription(strings.Trim(result.Text(), "`\"' \n"))
	if desc == "" {
		return nil, domain.ErrNoDescription
	}

	if result.UsageMetadata != nil {
		log.Debug().
			Str("model", g.model).
			Int32("prompt_tokens", result.UsageMetadata.PromptTokenCount).
			Int32("output_tokens", result.UsageMetadata.CandidatesTokenCount).
			Msg("Gemini description generated")
	}

	return &domain.EnrichmentResult{Description: desc, Source: SourceGemini}, nil
}
