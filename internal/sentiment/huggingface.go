package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"stock-news-advisor/internal/api"
)

const hfInferenceBaseURL = "https://api-inference.huggingface.co/models/"

// HuggingFaceClassifier classifies sentiment with a hosted text-classification
// model on the Hugging Face inference API. These models return all label
// scores per input, which maps directly onto SentimentResult.
type HuggingFaceClassifier struct {
	model         string
	fallbackModel string
	client        *api.Client
}

// NewHuggingFaceClassifier creates a classifier for the given model pair.
func NewHuggingFaceClassifier(model, fallbackModel string) *HuggingFaceClassifier {
	return &HuggingFaceClassifier{
		model:         model,
		fallbackModel: fallbackModel,
		client: api.NewClient(
			api.WithBaseURL(hfInferenceBaseURL),
			api.WithTimeout(30*time.Second),
			api.WithLogging(true),
		),
	}
}

func (h *HuggingFaceClassifier) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs  string `json:"inputs"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

type hfLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends the article text to the selected model and converts its
// label scores into the normalized mapping.
func (h *HuggingFaceClassifier) Classify(ctx context.Context, text string, degraded bool) (map[string]float64, error) {
	token := os.Getenv("HUGGINGFACEHUB_API_TOKEN")
	if token == "" {
		return nil, errors.New("HUGGINGFACEHUB_API_TOKEN missing")
	}

	model := h.model
	if degraded {
		model = h.fallbackModel
	}

	// Inference models truncate long inputs anyway; trim client-side to keep
	// payloads small.
	if len(text) > 2000 {
		text = text[:2000]
	}

	body := hfRequest{Inputs: text}
	body.Options.WaitForModel = true

	resp, err := h.client.POST(ctx, model, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, fmt.Errorf("huggingface inference failed: %w", err)
	}

	// Text-classification responds with one score list per input.
	var nested [][]hfLabelScore
	if err := json.Unmarshal(resp.Body, &nested); err != nil || len(nested) == 0 || len(nested[0]) == 0 {
		return nil, fmt.Errorf("unexpected huggingface response: %s", string(resp.Body))
	}

	scores := make(map[string]float64, len(nested[0]))
	for _, ls := range nested[0] {
		scores[strings.ToUpper(ls.Label)] = ls.Score
	}
	return normalizeLabels(scores)
}
