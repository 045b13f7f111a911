package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/katakuxiko/askexperts/internal/logger"
	"github.com/katakuxiko/askexperts/internal/model"
	"github.com/katakuxiko/askexperts/internal/store"
	"github.com/katakuxiko/askexperts/internal/util"
)

// MissingQuestionMessage is the 400 body when no question is given.
const MissingQuestionMessage = "Please pass a question on the query string"

// Answerer is the question answering pipeline.
type Answerer interface {
	Answer(ctx context.Context, rawQuestion string, docs []model.FactDocument) (*model.AskResult, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	qa    Answerer
	facts store.FactSource
}

func NewHandler(qa Answerer, facts store.FactSource) *Handler {
	return &Handler{qa: qa, facts: facts}
}

// Health is a liveness check.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// AskQuestion answers ?question= from the local expert facts and the search index.
func (h *Handler) AskQuestion(c *fiber.Ctx) error {
	logger.Info("AskQuestion processed a request", zap.String("request_id", requestID(c)))

	raw := c.Query("question")
	if raw == "" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusBadRequest).SendString(MissingQuestionMessage)
	}

	ctx := c.UserContext()
	docs, err := h.facts.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fact feed error: %w", err)
	}

	res, err := h.qa.Answer(ctx, raw, docs)
	if err != nil {
		return fmt.Errorf("question %q: %w", util.TruncateRunes(util.StripTags(raw), 80), err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(res.Answer)
}
