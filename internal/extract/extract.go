// Package extract turns free-form lot descriptions and photos into the
// structured item list the appraisal engine works on, using an LLM for
// the unstructured step and a strict parser for its output.
package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/metrics"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

const (
	defaultTextModel  = "gpt-5-mini"
	defaultImageModel = "gpt-5"

	// The model must answer in the exact list shape ParseItems accepts.
	extractionPrompt = "You are an assistant that extracts product names and their " +
		"quantities. Each product should include the brand and variant names " +
		"without colons and how certain you are. Return the result as a " +
		"semicolon-separated list in this format: " +
		"Brand: Product Variant Size: Quantity: certainty " +
		"e.g. Bluesky: Gel Polish 10 ml: 2: 0.90; product2: variant: qty: certainty. " +
		"If no products are found, output NULL. You must output something. " +
		"Try and get the size correct as much as possible."
)

// Extractor produces lot items from unstructured content.
type Extractor interface {
	FromDescription(ctx context.Context, description string) ([]*domain.Item, error)
	FromImage(ctx context.Context, imagePath string) ([]*domain.Item, error)
}

// OpenAIExtractor implements Extractor against the OpenAI chat API.
type OpenAIExtractor struct {
	client     *openai.Client
	textModel  string
	imageModel string
	log        *slog.Logger
}

// OpenAIOption configures the OpenAIExtractor.
type OpenAIOption func(*OpenAIExtractor)

// WithTextModel overrides the model used for descriptions.
func WithTextModel(m string) OpenAIOption {
	return func(e *OpenAIExtractor) {
		e.textModel = m
	}
}

// WithImageModel overrides the model used for photos.
func WithImageModel(m string) OpenAIOption {
	return func(e *OpenAIExtractor) {
		e.imageModel = m
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) OpenAIOption {
	return func(e *OpenAIExtractor) {
		e.log = l
	}
}

// NewOpenAIExtractor creates an extractor using the given API key.
func NewOpenAIExtractor(apiKey string, opts ...OpenAIOption) (*OpenAIExtractor, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is not set")
	}
	e := &OpenAIExtractor{
		client:     openai.NewClient(apiKey),
		textModel:  defaultTextModel,
		imageModel: defaultImageModel,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// FromDescription extracts items from a listing description.
func (e *OpenAIExtractor) FromDescription(ctx context.Context, description string) ([]*domain.Item, error) {
	if strings.TrimSpace(description) == "" {
		return nil, errors.New("description is empty")
	}

	out, err := e.complete(ctx, e.textModel, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt},
		{Role: openai.ChatMessageRoleUser, Content: description},
	})
	if err != nil {
		return nil, fmt.Errorf("extracting from description: %w", err)
	}

	return ParseItems(out)
}

// FromImage extracts items from a photo of the lot.
func (e *OpenAIExtractor) FromImage(ctx context.Context, imagePath string) ([]*domain.Item, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	e.log.Info("extracting items from image", "path", imagePath)

	out, err := e.complete(ctx, e.imageModel, []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extracting from image: %w", err)
	}

	return ParseItems(out)
}

func (e *OpenAIExtractor) complete(ctx context.Context, model string, msgs []openai.ChatCompletionMessage) (string, error) {
	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: msgs,
	})
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ExtractionFailuresTotal.Inc()
		return "", err
	}
	if len(resp.Choices) == 0 {
		metrics.ExtractionFailuresTotal.Inc()
		return "", errors.New("no completion choices returned")
	}

	out := resp.Choices[0].Message.Content
	e.log.Debug("extraction output", "model", model, "output", out)
	return out, nil
}
