package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/katakuxiko/askexperts/internal/config"
	"github.com/katakuxiko/askexperts/internal/logger"
	"github.com/katakuxiko/askexperts/internal/model"
	"github.com/katakuxiko/askexperts/internal/search"
	"github.com/katakuxiko/askexperts/internal/util"
)

// Retrieval shape sent to the search index.
const (
	VectorNeighbors = 3
	VectorField     = "embedding"
	SelectField     = "chunk"
	SearchTop       = 5
)

// UserSuffix is appended to the sanitized question in the user message.
const UserSuffix = ". Be as helpful as possible in connecting the above local experts in the response. State the response as a gramatically correct and complete summary."

// ErrNoFacts is returned when the fact feed delivered no documents. No
// answer is generated in that case.
var ErrNoFacts = errors.New("no local expert documents in the fact feed")

type Embedder interface {
	Embedding(ctx context.Context, text string) ([]float32, error)
}

type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, p config.GenerationConfig) (string, error)
}

type Searcher interface {
	Search(ctx context.Context, r search.Request) ([]model.SearchResult, error)
}

// QAService answers one question from local expert facts and search chunks.
type QAService struct {
	embedder  Embedder
	searcher  Searcher
	completer Completer
	gen       config.GenerationConfig
}

func NewQAService(embedder Embedder, searcher Searcher, completer Completer, gen config.GenerationConfig) *QAService {
	return &QAService{embedder: embedder, searcher: searcher, completer: completer, gen: gen}
}

// Answer runs the pipeline for a raw question. Upstream calls are strictly
// sequential and any failure is returned as is, wrapped with the step name.
func (s *QAService) Answer(ctx context.Context, rawQuestion string, docs []model.FactDocument) (*model.AskResult, error) {
	question := util.StripTags(rawQuestion)
	if len(docs) == 0 {
		return nil, ErrNoFacts
	}

	corpus := FactsCorpus(docs)

	vec, err := s.embedder.Embedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding error: %w", err)
	}
	logger.Info("question embedded", zap.Int("dims", len(vec)))

	results, err := s.searcher.Search(ctx, BuildSearchRequest(question, vec))
	if err != nil {
		return nil, fmt.Errorf("search error: %w", err)
	}
	corpus = AppendChunks(corpus, results)

	answer, err := s.completer.Complete(ctx, BuildMessages(corpus, question), s.gen)
	if err != nil {
		return nil, fmt.Errorf("llm error: %w", err)
	}

	return &model.AskResult{Question: question, Corpus: corpus, Answer: answer}, nil
}

// FactsCorpus is the preamble immediately followed by the newline-joined facts.
func FactsCorpus(docs []model.FactDocument) string {
	facts := make([]string, len(docs))
	for i, d := range docs {
		facts[i] = d.Fact
	}
	return model.Preamble + strings.Join(facts, "\n")
}

// AppendChunks adds a newline and the newline-joined search chunks.
func AppendChunks(corpus string, results []model.SearchResult) string {
	chunks := make([]string, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}
	return corpus + "\n" + strings.Join(chunks, "\n")
}

// BuildSearchRequest is the hybrid query: keyword text plus one vector query.
func BuildSearchRequest(question string, vec []float32) search.Request {
	return search.Request{
		Search:        question,
		VectorQueries: []search.VectorizedQuery{search.NewVectorizedQuery(vec, VectorNeighbors, VectorField)},
		Select:        SelectField,
		Top:           SearchTop,
	}
}

func BuildMessages(corpus, question string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: corpus},
		{Role: openai.ChatMessageRoleUser, Content: question + UserSuffix},
	}
}
