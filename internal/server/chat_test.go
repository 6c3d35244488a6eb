package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"studypal/internal/chat"
	"studypal/models"
)

type stubChatter struct {
	ready bool
	turn  chat.Turn
	err   error
	hist  []models.Message
}

func (s *stubChatter) Ready() bool { return s.ready }

func (s *stubChatter) Chat(_ context.Context, message, conversationID string) (chat.Turn, error) {
	return s.turn, s.err
}

func (s *stubChatter) History(_ context.Context, id string) ([]models.Message, error) {
	return s.hist, nil
}

type stubIndexer struct {
	docs []string
	err  error
}

func (s *stubIndexer) Index(_ context.Context, docs []string, sources []string) ([]string, error) {
	s.docs = docs
	return make([]string, len(docs)), s.err
}

func newChatContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestChatSuccess(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Orch: &stubChatter{
		ready: true,
		turn:  chat.Turn{Response: "The sky is blue.", ConversationID: "conv-1", Sources: []string{"The sky is blue."}},
	}}

	ctx, rec := newChatContext(e, `{"message":"What color is the sky?"}`)
	if err := handler.chat(ctx); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ConversationID != "conv-1" || resp.Response == "" || len(resp.Sources) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChatMissingMessage(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Orch: &stubChatter{ready: true}}

	for _, body := range []string{`{}`, `{"message":"   "}`} {
		ctx, _ := newChatContext(e, body)
		err := handler.chat(ctx)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 error, got %#v", body, err)
		}
	}
}

func TestChatDegradedModeStillOK(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Orch: &stubChatter{
		ready: true,
		turn:  chat.Turn{Response: "best effort answer", ConversationID: "conv-2"},
	}}

	ctx, rec := newChatContext(e, `{"message":"hi"}`)
	if err := handler.chat(ctx); err != nil {
		t.Fatalf("chat: %v", err)
	}
	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Sources == nil || len(resp.Sources) != 0 {
		t.Fatalf("expected empty (not null) sources, got %v", rec.Body.String())
	}
	if resp.Response == "" {
		t.Fatal("expected non-empty response")
	}
}

func TestChatGenerationFailure503(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Orch: &stubChatter{
		ready: true,
		err:   fmt.Errorf("%w: rate limited", models.ErrGeneration),
	}}

	ctx, _ := newChatContext(e, `{"message":"hi"}`)
	err := handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 error, got %#v", err)
	}
}

func TestChatNotConfigured503(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Orch: &stubChatter{err: models.ErrNotConfigured}}

	ctx, _ := newChatContext(e, `{"message":"hi"}`)
	err := handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 error, got %#v", err)
	}
}

func TestIndexDocuments(t *testing.T) {
	e := echo.New()
	indexer := &stubIndexer{}
	handler := &ChatHandler{Orch: &stubChatter{ready: true}, Index: indexer}

	req := httptest.NewRequest(http.MethodPost, "/api/chat/index-documents", strings.NewReader(`["The sky is blue.","Water boils at 100C."]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.indexDocuments(e.NewContext(req, rec)); err != nil {
		t.Fatalf("indexDocuments: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(indexer.docs) != 2 {
		t.Fatalf("expected 2 docs passed through, got %d", len(indexer.docs))
	}

	var resp IndexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Successfully indexed 2 documents" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestIndexDocumentsNotConfigured(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Orch: &stubChatter{ready: false}, Index: &stubIndexer{}}

	req := httptest.NewRequest(http.MethodPost, "/api/chat/index-documents", strings.NewReader(`["doc"]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := handler.indexDocuments(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 error, got %#v", err)
	}
}

func TestIndexDocumentsEmbeddingFailure(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{
		Orch:  &stubChatter{ready: true},
		Index: &stubIndexer{err: fmt.Errorf("%w: unavailable", models.ErrEmbedding)},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat/index-documents", strings.NewReader(`["doc"]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := handler.indexDocuments(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 error, got %#v", err)
	}
}

func TestConversationHistory(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Orch: &stubChatter{
		ready: true,
		hist: []models.Message{
			{Role: models.RoleUser, Content: "hi"},
			{Role: models.RoleAssistant, Content: "hello"},
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversations/conv-1", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("conv-1")

	if err := handler.conversation(ctx); err != nil {
		t.Fatalf("conversation: %v", err)
	}
	var resp ConversationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ConversationID != "conv-1" || len(resp.Messages) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()

	for _, tc := range []struct {
		ready bool
		code  int
	}{
		{true, http.StatusOK},
		{false, http.StatusServiceUnavailable},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		if err := healthHandler(&stubChatter{ready: tc.ready})(e.NewContext(req, rec)); err != nil {
			t.Fatalf("health: %v", err)
		}
		if rec.Code != tc.code {
			t.Fatalf("ready=%v: expected %d, got %d", tc.ready, tc.code, rec.Code)
		}
		var resp HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.RAGAvailable != tc.ready {
			t.Fatalf("ready=%v: unexpected body %s", tc.ready, rec.Body.String())
		}
	}
}
