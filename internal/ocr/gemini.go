package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiVision uses Google Gemini as the OCR engine; same transcription-only
// role as OpenAIVision.
type GeminiVision struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiVision creates a Gemini-backed OCR engine.
func NewGeminiVision(ctx context.Context, apiKey, modelName string) (*GeminiVision, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiVision{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Recognize sends the image with the transcription prompt and concatenates
// the text parts of the first candidate.
func (g *GeminiVision) Recognize(ctx context.Context, image []byte) (string, error) {
	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData(DetectImageFormat(image), image),
		genai.Text(transcriptionPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("vision transcription failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return strings.TrimSpace(text.String()), nil
}

// Close releases the underlying API client.
func (g *GeminiVision) Close() error {
	return g.client.Close()
}
