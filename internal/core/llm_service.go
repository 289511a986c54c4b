package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/asknotes/asknotes/internal/config"
)

const (
	embeddingModelName = "text-embedding-004"

	answerSystemInstruction = "You are AskNotes, a study assistant answering questions about the user's uploaded notes. " +
		"Answer pedagogically, grounding every claim in the source material provided and citing the source file it came from. " +
		"If the answer is not found in the provided material, clearly state that the notes do not cover it. " +
		"Do not make up information."
)

// Embedder turns text into a vector for nearest-neighbor retrieval. The
// same embedder must be used for index construction and for questions.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces the answer text for a fully composed prompt.
type Generator interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
}

// AllowedModels is the fixed set of selectable generation models. The
// first entry is the default; AdvancedDefaultModel is preselected when the
// caller's advanced-mode toggle is on.
var AllowedModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-pro",
}

const AdvancedDefaultModel = "gemini-1.5-pro"

// ModelAllowed reports whether modelID is in the fixed enumerated set.
func ModelAllowed(modelID string) bool {
	for _, m := range AllowedModels {
		if m == modelID {
			return true
		}
	}
	return false
}

// DefaultModel returns the model preselected for a session given the
// advanced-mode toggle.
func DefaultModel(advanced bool) string {
	if advanced {
		return AdvancedDefaultModel
	}
	return AllowedModels[0]
}

// LLMService wraps the Gemini client behind the Embedder and Generator
// interfaces used by the rest of the core.
type LLMService struct {
	client *genai.Client
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (s *LLMService) Embed(ctx context.Context, text string) ([]float32, error) {
	em := s.client.EmbeddingModel(embeddingModelName)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embedding.Values, nil
}

func (s *LLMService) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	model := s.client.GenerativeModel(modelID)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(answerSystemInstruction)},
	}

	// Temperature is fixed; it is not a caller-tunable knob.
	temp := float32(0.9)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temp,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response was empty or had no valid candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini returned a non-text or empty response")
	}

	return responseText.String(), nil
}
