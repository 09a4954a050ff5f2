package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"townguide/internal/catalog"
	"townguide/internal/infra"
	"townguide/internal/logger"
	"townguide/internal/modules/conversation"
	"townguide/internal/service"
)

type echoChatter struct{}

func (echoChatter) HandleTurn(_ context.Context, req service.TurnRequest) *service.TurnResponse {
	return &service.TurnResponse{Text: req.Query, NewState: conversation.NewState()}
}

type rejectAll struct{}

func (rejectAll) VerifyIDToken(context.Context, string) (*infra.FirebaseToken, error) {
	return nil, assert.AnError
}

func newTestServer(t *testing.T, burst int) http.Handler {
	gin.SetMode(gin.TestMode)
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(ServerDeps{
		Assistant: echoChatter{},
		Catalog:   cat,
		Verifier:  rejectAll{},
		Logger:    logger.NewTestLogger(t),
		RateRPS:   0.001,
		RateBurst: burst,
	}).Routes()
}

func do(h http.Handler, method, path, body, auth string) int {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, 100)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", ""))
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/metrics", "", ""))
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/chat", `{"query":"szia"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/chat", `{"query":"szia"}`, "Bearer bad"))
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/places", "", ""))
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/nothing", "", ""))
}

func TestRoutes_RateLimitSparesHealth(t *testing.T) {
	h := newTestServer(t, 1)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/places", "", ""))
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/api/places", "", ""))
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", ""))
}
