package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"

	"github.com/katakuxiko/askexperts/internal/config"
)

var (
	errEmptyEmbedding  = errors.New("embedding response has no data")
	errEmptyCompletion = errors.New("chat completion response has no choices")
)

// LLMClient talks to Azure OpenAI for embeddings and chat completions.
type LLMClient struct {
	client    *openai.Client
	embedName string
}

// NewLLMClient builds an Azure OpenAI client. Deployment names are used as-is.
func NewLLMClient(cfg config.OpenAIConfig) *LLMClient {
	oaiCfg := openai.DefaultAzureConfig(cfg.Key, cfg.Endpoint)
	oaiCfg.APIVersion = cfg.APIVersion
	oaiCfg.AzureModelMapperFunc = func(model string) string { return model }

	return &LLMClient{
		client:    openai.NewClientWithConfig(oaiCfg),
		embedName: cfg.EmbeddingModel,
	}
}

// Embedding returns the embedding of a single input string.
func (l *LLMClient) Embedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := l.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(l.embedName),
		Input: []string{text},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errEmptyEmbedding
	}
	return resp.Data[0].Embedding, nil
}

// Complete sends the messages with the given generation parameters and
// returns the content of the first choice verbatim.
func (l *LLMClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, p config.GenerationConfig) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:            p.Model,
		Messages:         messages,
		Temperature:      keepZero(p.Temperature),
		MaxTokens:        p.MaxTokens,
		TopP:             keepZero(p.TopP),
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
	}
	if p.Stop != "" {
		req.Stop = []string{p.Stop}
	}

	resp, err := l.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s: %w", p.Model, errEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

// keepZero maps 0 to the smallest float32 so the omitempty tags in
// go-openai still send it instead of falling back to the service default.
func keepZero(v float32) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return v
}
