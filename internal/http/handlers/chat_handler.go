// README: Chat handler; one visitor message in, one assistant turn out.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"townguide/internal/http/middleware"
	"townguide/internal/modules/conversation"
	"townguide/internal/service"
	"townguide/internal/types"
)

const (
	maxQueryRunes  = 1000
	maxHistory     = 20
	defaultTimeout = 20 * time.Second
)

// Chatter is satisfied by *service.Assistant.
type Chatter interface {
	HandleTurn(ctx context.Context, req service.TurnRequest) *service.TurnResponse
}

type ChatHandler struct {
	assistant Chatter
	timeout   time.Duration
}

func NewChatHandler(assistant Chatter, timeout time.Duration) *ChatHandler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ChatHandler{assistant: assistant, timeout: timeout}
}

type chatReq struct {
	Query        string                 `json:"query"`
	History      []conversation.Message `json:"history"`
	Context      service.ContextInput   `json:"context"`
	SessionState *conversation.State    `json:"sessionState"`
}

// Chat handles POST /api/chat. The user id comes only from the verified
// token; guests carry their state in sessionState.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(c, http.StatusBadRequest, "missing query")
		return
	}
	if utf8.RuneCountInString(req.Query) > maxQueryRunes {
		writeError(c, http.StatusBadRequest, "query too long")
		return
	}
	if len(req.History) > maxHistory {
		req.History = req.History[len(req.History)-maxHistory:]
	}
	if req.SessionState != nil {
		req.Context.SessionState = req.SessionState
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := h.assistant.HandleTurn(ctx, service.TurnRequest{
		Query:   req.Query,
		History: req.History,
		Context: req.Context,
		UserID:  types.ID(middleware.CallerUID(c)),
	})
	writeJSON(c, http.StatusOK, resp)
}
