package sentiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const geminiSystemPrompt = "You are a financial news analyst. " +
	"Respond ONLY with valid JSON, no prose and no markdown fences."

// GeminiClassifier classifies article sentiment with the Gemini API.
// The primary model serves normal traffic; degraded calls go to the cheaper
// fallback model.
type GeminiClassifier struct {
	model         string
	fallbackModel string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClassifier creates a classifier using the given model pair. The
// API client is initialized lazily on first use so construction never needs
// network access or credentials.
func NewGeminiClassifier(model, fallbackModel string) *GeminiClassifier {
	return &GeminiClassifier{model: model, fallbackModel: fallbackModel}
}

func (g *GeminiClassifier) Name() string { return "gemini" }

func (g *GeminiClassifier) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY missing")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.client = client
	return client, nil
}

// Classify asks the selected Gemini model for a sentiment distribution over
// the article text.
func (g *GeminiClassifier) Classify(ctx context.Context, text string, degraded bool) (map[string]float64, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	model := g.model
	if degraded {
		model = g.fallbackModel
	}

	resp, err := client.Models.GenerateContent(ctx, model,
		genai.Text(buildPrompt(text)),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr(float32(0.1)),
			SystemInstruction: genai.NewContentFromText(geminiSystemPrompt, genai.RoleUser),
		})
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	var sb strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				sb.WriteString(part.Text)
			}
			if sb.Len() > 0 {
				break
			}
		}
	}
	if sb.Len() == 0 {
		return nil, errors.New("gemini returned no text")
	}

	return parseScoreJSON(sb.String())
}

func buildPrompt(text string) string {
	content := text
	if len(content) > 2000 {
		content = content[:2000] + "..."
	}

	return fmt.Sprintf(`Given the following financial news article: %q

Rate how strongly the article reads as positive, negative or neutral for the
company it concerns. Each score is a probability in [0,1].

Respond ONLY with JSON of this exact shape:
{"POSITIVE": 0.0, "NEGATIVE": 0.0, "NEUTRAL": 0.0}`, content)
}
