package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quetzal-chat/quetzal/internal/domain"
	"github.com/quetzal-chat/quetzal/internal/services/ai"
)

type fakeKnowledgeRepo struct {
	facts []domain.KnowledgeFact
	err   error
}

func (f *fakeKnowledgeRepo) FindMatching(ctx context.Context, query string) ([]domain.KnowledgeFact, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matches []domain.KnowledgeFact
	for _, fact := range f.facts {
		if strings.Contains(strings.ToLower(query), fact.Keyword) {
			matches = append(matches, fact)
		}
	}
	return matches, nil
}

func (f *fakeKnowledgeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.facts)), nil
}

func (f *fakeKnowledgeRepo) CreateInBatch(ctx context.Context, facts []domain.KnowledgeFact) error {
	f.facts = append(f.facts, facts...)
	return nil
}

type fakeProvider struct {
	answer      string
	err         error
	calls       int
	lastPrompt  string
	imageCalls  int
	lastMime    string
	imageAnswer string
}

func (f *fakeProvider) Answer(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeProvider) DescribeImage(ctx context.Context, data []byte, mimeType, instruction string) (string, error) {
	f.imageCalls++
	f.lastMime = mimeType
	if f.err != nil {
		return "", f.err
	}
	return f.imageAnswer, nil
}

func TestResolveKnowledgeHitSkipsProvider(t *testing.T) {
	repo := &fakeKnowledgeRepo{facts: []domain.KnowledgeFact{
		{Keyword: "aphid", Answer: "Use neem oil spray"},
	}}
	provider := &fakeProvider{answer: "should not be used"}
	svc := NewResolverService(repo, provider, NoOpLogger{})

	answer := svc.Resolve(context.Background(), "i have aphid problems")

	assert.Equal(t, "Use neem oil spray", answer)
	assert.Zero(t, provider.calls, "reasoning client must not be called on a knowledge hit")
}

func TestResolveMissCallsProviderOnce(t *testing.T) {
	repo := &fakeKnowledgeRepo{}
	provider := &fakeProvider{answer: "Spray with soapy water early in the morning."}
	svc := NewResolverService(repo, provider, NoOpLogger{})

	question := "how do I treat aphids on tomatoes"
	answer := svc.Resolve(context.Background(), question)

	assert.Equal(t, "Spray with soapy water early in the morning.", answer)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, PersonaPrompt+question, provider.lastPrompt)
}

func TestResolveProviderFailureReturnsFallback(t *testing.T) {
	repo := &fakeKnowledgeRepo{}
	provider := &fakeProvider{err: errors.New("upstream exploded")}
	svc := NewResolverService(repo, provider, NoOpLogger{})

	answer := svc.Resolve(context.Background(), "anything")

	assert.Equal(t, FallbackAnswer, answer)
	assert.Equal(t, 1, provider.calls)
}

func TestResolveKnowledgeErrorFallsThroughToProvider(t *testing.T) {
	repo := &fakeKnowledgeRepo{err: errors.New("db down")}
	provider := &fakeProvider{answer: "from the reasoning service"}
	svc := NewResolverService(repo, provider, NoOpLogger{})

	answer := svc.Resolve(context.Background(), "aphid question")

	assert.Equal(t, "from the reasoning service", answer)
	assert.Equal(t, 1, provider.calls)
}

func TestResolveSeededPickerIsDeterministic(t *testing.T) {
	repo := &fakeKnowledgeRepo{facts: []domain.KnowledgeFact{
		{Keyword: "tomate", Answer: "first"},
		{Keyword: "plaga", Answer: "second"},
	}}
	provider := &fakeProvider{}
	svc := NewResolverServiceWithPicker(repo, provider, NoOpLogger{}, func(n int) int {
		require.Equal(t, 2, n)
		return 1
	})

	answer := svc.Resolve(context.Background(), "una plaga en mi tomate")

	assert.Equal(t, "second", answer)
	assert.Zero(t, provider.calls)
}

func TestResolveImage(t *testing.T) {
	provider := &fakeProvider{imageAnswer: "Es un pulgón verde."}
	svc := NewResolverService(&fakeKnowledgeRepo{}, provider, NoOpLogger{})

	answer := svc.ResolveImage(context.Background(), []byte{0x1}, "image/png")

	assert.Equal(t, "Es un pulgón verde.", answer)
	assert.Equal(t, 1, provider.imageCalls)
	assert.Equal(t, "image/png", provider.lastMime)
}

func TestResolveImageFailureReturnsFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("vision unavailable")}
	svc := NewResolverService(&fakeKnowledgeRepo{}, provider, NoOpLogger{})

	answer := svc.ResolveImage(context.Background(), []byte{0x1}, "image/jpeg")

	assert.Equal(t, FallbackImageAnswer, answer)
}

var _ ai.Provider = (*fakeProvider)(nil)
