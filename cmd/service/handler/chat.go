package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/app/response"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

type ChatTurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content" binding:"required"`
}

type ChatTurnRequest struct {
	SessionID string `json:"session_id" form:"session_id"`
	// Messages carries the conversation as the client sees it; only the last
	// element is consumed as the current question, the server rebuilds the
	// earlier context from its own records.
	Messages []ChatTurnMessage `json:"messages" binding:"required,min=1,dive"`
	// WorkspaceID is advisory. Document visibility always comes from the
	// caller's token, never from the request.
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`
	// Stream defaults to true; pass false for a single JSON response.
	Stream *bool `json:"stream" form:"stream"`
}

// Question is the last element of Messages.
func (r ChatTurnRequest) Question() string {
	return r.Messages[len(r.Messages)-1].Content
}

// ChatTurn runs one chat turn. The streaming shape is newline-delimited JSON
// frames; headers are not written until the first frame, so failures before
// generation still produce a normal error envelope.
func (s *HttpSrv) ChatTurn(c *gin.Context) {
	var req ChatTurnRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	logic := v1.NewChatLogic(c, s.Core)
	turnReq := v1.TurnRequest{
		SessionID: req.SessionID,
		Question:  req.Question(),
	}

	if req.Stream != nil && !*req.Stream {
		result, err := logic.Turn(turnReq)
		if err != nil {
			response.APIError(c, err)
			return
		}
		response.APISuccess(c, result)
		return
	}

	var (
		started bool
		flusher http.Flusher
	)
	if f, ok := c.Writer.(http.Flusher); ok {
		flusher = f
	}
	enc := json.NewEncoder(c.Writer)

	err := logic.StreamTurn(turnReq, func(frame types.StreamFrame) error {
		if !started {
			c.Header("Content-Type", "application/x-ndjson")
			c.Writer.WriteHeader(http.StatusOK)
			started = true
		}
		if err := enc.Encode(frame); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		if !started {
			response.APIError(c, err)
		}
		return
	}
	c.Abort()
}
