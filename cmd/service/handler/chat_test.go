package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knova-ai/knova/pkg/utils"
)

func bindTurnRequest(t *testing.T, body string) (ChatTurnRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req ChatTurnRequest
	err := utils.BindArgsWithGin(c, &req)
	return req, err
}

func Test_ChatTurnRequestBinding(t *testing.T) {
	req, err := bindTurnRequest(t, `{
		"messages": [
			{"role": "user", "content": "earlier question"},
			{"role": "assistant", "content": "earlier answer"},
			{"role": "user", "content": "what is the vacation policy?"}
		],
		"workspace_id": "default",
		"session_id": "s-1",
		"stream": false
	}`)
	require.NoError(t, err)

	assert.Equal(t, "what is the vacation policy?", req.Question())
	assert.Equal(t, "s-1", req.SessionID)
	require.NotNil(t, req.Stream)
	assert.False(t, *req.Stream)
}

func Test_ChatTurnRequestBindingMinimal(t *testing.T) {
	req, err := bindTurnRequest(t, `{"messages":[{"role":"user","content":"hello"}]}`)
	require.NoError(t, err)

	assert.Equal(t, "hello", req.Question())
	assert.Empty(t, req.SessionID)
	assert.Nil(t, req.Stream)
}

func Test_ChatTurnRequestBindingRejectsEmpty(t *testing.T) {
	_, err := bindTurnRequest(t, `{"messages":[]}`)
	assert.Error(t, err)

	_, err = bindTurnRequest(t, `{"workspace_id":"default"}`)
	assert.Error(t, err)

	_, err = bindTurnRequest(t, `{"messages":[{"role":"user","content":""}]}`)
	assert.Error(t, err)
}
