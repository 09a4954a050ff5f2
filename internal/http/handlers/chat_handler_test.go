package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/http/handlers"
	"townguide/internal/http/middleware"
	"townguide/internal/infra"
	"townguide/internal/modules/conversation"
	"townguide/internal/router"
	"townguide/internal/service"
)

// stubChatter records the request it was handed.
type stubChatter struct {
	got  *service.TurnRequest
	resp *service.TurnResponse
}

func (s *stubChatter) HandleTurn(_ context.Context, req service.TurnRequest) *service.TurnResponse {
	s.got = &req
	if s.resp != nil {
		return s.resp
	}
	return &service.TurnResponse{Text: "Szia!", NewState: conversation.NewState(), ReplyType: router.ReplyGreeting, SessionID: "s1"}
}

type stubTokenVerifier struct{ uid string }

func (s stubTokenVerifier) VerifyIDToken(context.Context, string) (*infra.FirebaseToken, error) {
	return &infra.FirebaseToken{UID: s.uid}, nil
}

func buildChatRouter(chat handlers.Chatter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(stubTokenVerifier{uid: "user-7"}))
	r.POST("/api/chat", handlers.NewChatHandler(chat, 0).Chat)
	return r
}

func postChat(r http.Handler, body string, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChat_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"query":`},
		{"missing query", `{"history":[]}`},
		{"blank query", `{"query":"   "}`},
		{"too long", `{"query":"` + strings.Repeat("a", 1001) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChatter{}
			w := postChat(buildChatRouter(chat), tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, chat.got)
		})
	}
}

func TestChat_GuestRequest(t *testing.T) {
	chat := &stubChatter{}
	body := `{
		"query": " parkolnék ",
		"history": [{"role":"user","content":"szia"},{"role":"assistant","content":"Szia!"}],
		"context": {"location":{"lat":47.39,"lng":16.54},"speed":3,"sessionId":"g-1"},
		"sessionState": {"phase":"parking_collect_plate","tempData":{},"mobility":"walking"}
	}`
	w := postChat(buildChatRouter(chat), body, "")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, chat.got)
	assert.Equal(t, "parkolnék", chat.got.Query)
	assert.True(t, chat.got.UserID.IsZero())
	assert.Len(t, chat.got.History, 2)
	assert.Equal(t, "g-1", chat.got.Context.SessionID)
	require.NotNil(t, chat.got.Context.SessionState)
	assert.Equal(t, conversation.PhaseParkingCollectPlate, chat.got.Context.SessionState.Phase)

	var resp service.TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Szia!", resp.Text)
	assert.Equal(t, router.ReplyGreeting, resp.ReplyType)
}

func TestChat_UserIDFromTokenOnly(t *testing.T) {
	chat := &stubChatter{}
	w := postChat(buildChatRouter(chat), `{"query":"szia","userId":"spoofed"}`, "Bearer token")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-7", chat.got.UserID.String())
}

func TestChat_HistoryIsCapped(t *testing.T) {
	var msgs []string
	for i := 0; i < 30; i++ {
		msgs = append(msgs, `{"role":"user","content":"m"}`)
	}
	chat := &stubChatter{}
	w := postChat(buildChatRouter(chat), `{"query":"szia","history":[`+strings.Join(msgs, ",")+`]}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, chat.got.History, 20)
}
