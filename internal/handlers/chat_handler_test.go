package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quetzal-chat/quetzal/internal/domain"
	"github.com/quetzal-chat/quetzal/internal/services"
)

type stubKnowledge struct {
	facts []domain.KnowledgeFact
}

func (s *stubKnowledge) FindMatching(_ context.Context, query string) ([]domain.KnowledgeFact, error) {
	var matches []domain.KnowledgeFact
	for _, fact := range s.facts {
		if strings.Contains(strings.ToLower(query), fact.Keyword) {
			matches = append(matches, fact)
		}
	}
	return matches, nil
}

func (s *stubKnowledge) Count(context.Context) (int64, error) {
	return int64(len(s.facts)), nil
}

func (s *stubKnowledge) CreateInBatch(context.Context, []domain.KnowledgeFact) error {
	return nil
}

type stubProvider struct {
	answer string
	err    error
}

func (s *stubProvider) Answer(context.Context, string) (string, error) {
	return s.answer, s.err
}

func (s *stubProvider) DescribeImage(context.Context, []byte, string, string) (string, error) {
	return s.answer, s.err
}

func newChatHandler(t *testing.T, knowledge *stubKnowledge, provider *stubProvider) *ChatHandler {
	t.Helper()
	resolver := services.NewResolverService(knowledge, provider, services.NoOpLogger{})
	return NewChatHandler(resolver, t.TempDir(), services.NoOpLogger{})
}

func postChat(t *testing.T, handler *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleChat(rec, req)
	return rec
}

func TestHandleChatMissingMessage(t *testing.T) {
	handler := newChatHandler(t, &stubKnowledge{}, &stubProvider{answer: "ok"})

	for _, body := range []string{`{}`, `{"message":"  "}`, `not json`} {
		rec := postChat(t, handler, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestHandleChatKnowledgeHit(t *testing.T) {
	knowledge := &stubKnowledge{facts: []domain.KnowledgeFact{
		{Keyword: "pulgón", Answer: "usa jabón potásico"},
	}}
	handler := newChatHandler(t, knowledge, &stubProvider{err: errors.New("down")})

	rec := postChat(t, handler, `{"message":"tengo pulgón en los tomates"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "usa jabón potásico", resp["text"])
}

func TestHandleChatProviderFailureReturnsFallbackBody(t *testing.T) {
	handler := newChatHandler(t, &stubKnowledge{}, &stubProvider{err: errors.New("timeout")})

	rec := postChat(t, handler, `{"message":"pregunta sin respuesta local"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, services.FallbackAnswer, resp["text"])
}

func multipartImageRequest(t *testing.T) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "hoja.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleAnalyzeImageRemovesTempFile(t *testing.T) {
	uploadDir := t.TempDir()
	resolver := services.NewResolverService(&stubKnowledge{},
		&stubProvider{answer: "una hoja con pulgón"}, services.NoOpLogger{})
	handler := NewChatHandler(resolver, uploadDir, services.NoOpLogger{})

	rec := httptest.NewRecorder()
	handler.HandleAnalyzeImage(rec, multipartImageRequest(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "una hoja con pulgón", resp["text"])

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleAnalyzeImageProviderFailureCleansUp(t *testing.T) {
	uploadDir := t.TempDir()
	resolver := services.NewResolverService(&stubKnowledge{},
		&stubProvider{err: errors.New("timeout")}, services.NoOpLogger{})
	handler := NewChatHandler(resolver, uploadDir, services.NoOpLogger{})

	rec := httptest.NewRecorder()
	handler.HandleAnalyzeImage(rec, multipartImageRequest(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, services.FallbackImageAnswer, resp["text"])

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleAnalyzeImageMissingFile(t *testing.T) {
	handler := newChatHandler(t, &stubKnowledge{}, &stubProvider{answer: "una tomatera sana"})

	req := httptest.NewRequest(http.MethodPost, "/analyze-image", bytes.NewBufferString("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()
	handler.HandleAnalyzeImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
