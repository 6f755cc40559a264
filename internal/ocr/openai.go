package ocr

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// transcriptionPrompt asks a vision model to behave as a plain OCR engine.
// Extraction stays rule-based downstream; the model only transcribes.
const transcriptionPrompt = `Transcribe ALL text visible in this invoice image, exactly as printed, preserving line breaks. Return only the raw text, no commentary and no markdown.`

// OpenAIVision uses an OpenAI-compatible vision model as the OCR engine.
// Useful when tesseract is not installed or scan quality is too poor for it.
type OpenAIVision struct {
	client *openai.Client
	model  string
}

// NewOpenAIVision creates a vision OCR engine. baseURL may point at any
// OpenAI-compatible endpoint; empty means the default API.
func NewOpenAIVision(apiKey, baseURL, model string) (*OpenAIVision, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIVision{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Recognize sends the image inline as a data URL and returns the model's
// transcription.
func (o *OpenAIVision) Recognize(ctx context.Context, image []byte) (string, error) {
	format := DetectImageFormat(image)
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		formatMIME(format),
		base64.StdEncoding.EncodeToString(image),
	)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: transcriptionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision transcription failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from vision model")
	}

	return resp.Choices[0].Message.Content, nil
}
