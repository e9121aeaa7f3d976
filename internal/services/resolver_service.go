package services

import (
	"context"
	"math/rand/v2"

	"github.com/quetzal-chat/quetzal/internal/repository/knowledge"
	"github.com/quetzal-chat/quetzal/internal/services/ai"
)

// PersonaPrompt is prepended to every text question sent to the external
// reasoning service.
const PersonaPrompt = "Eres Quetzal, un experto agrónomo. Responde breve: "

// ImageInstruction is the fixed instruction for the image analysis path.
const ImageInstruction = "Identifica plantas o plagas en esta imagen."

// Degraded answers shown when the external service fails. Kept short and
// user-safe; raw provider errors stay in the logs.
const (
	FallbackAnswer      = "Error en el servidor de IA."
	FallbackImageAnswer = "No se pudo analizar la imagen."
)

// ResolverService turns a user question into an answer: local knowledge
// first, the external reasoning service as fallback. A matching knowledge
// fact always wins over the external call; picking among several matching
// facts is random on purpose. Inject a seeded picker for deterministic
// tests.
type ResolverService struct {
	knowledgeRepo knowledge.KnowledgeRepository
	provider      ai.Provider
	pick          func(n int) int
	logger        Logger
}

func NewResolverService(knowledgeRepo knowledge.KnowledgeRepository, provider ai.Provider, logger Logger) *ResolverService {
	return NewResolverServiceWithPicker(knowledgeRepo, provider, logger, rand.IntN)
}

// NewResolverServiceWithPicker lets callers control which of several
// matching facts is returned. pick(n) must return a value in [0, n).
func NewResolverServiceWithPicker(knowledgeRepo knowledge.KnowledgeRepository, provider ai.Provider, logger Logger, pick func(n int) int) *ResolverService {
	return &ResolverService{
		knowledgeRepo: knowledgeRepo,
		provider:      provider,
		pick:          pick,
		logger:        logger,
	}
}

// Resolve never returns an error: a knowledge miss falls through to the
// external service, and an external failure degrades to FallbackAnswer.
// A knowledge store error is treated as a miss.
func (s *ResolverService) Resolve(ctx context.Context, text string) string {
	facts, err := s.knowledgeRepo.FindMatching(ctx, text)
	if err != nil {
		s.logger.Warn("knowledge lookup failed, falling back to reasoning service", "error", err.Error())
	}
	if err == nil && len(facts) > 0 {
		fact := facts[s.pick(len(facts))]
		s.logger.Info("answered from local knowledge", "keyword", fact.Keyword)
		return fact.Answer
	}

	answer, err := s.provider.Answer(ctx, PersonaPrompt+text)
	if err != nil {
		s.logger.Error("reasoning service failed", "error", err.Error())
		return FallbackAnswer
	}
	return answer
}

// ResolveImage analyzes an uploaded image with the fixed instruction.
// Like Resolve, failures degrade to a fixed user-safe answer.
func (s *ResolverService) ResolveImage(ctx context.Context, data []byte, mimeType string) string {
	answer, err := s.provider.DescribeImage(ctx, data, mimeType, ImageInstruction)
	if err != nil {
		s.logger.Error("image analysis failed", "error", err.Error())
		return FallbackImageAnswer
	}
	return answer
}
