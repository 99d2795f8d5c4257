package handler

import (
	"MindLink/internal/modules/dialog/application/service"
	"MindLink/pkg/back"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	svc service.SessionService
}

func NewSessionHandler(svc service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Summary 会话摘要查询
func (h *SessionHandler) Summary(c *gin.Context) {
	userID := c.Param("user_id")
	sessionID := c.Param("session_id")
	data, err := h.svc.Summary(userID, sessionID)
	back.Result(c, data, err)
}

// Delete 删除会话
func (h *SessionHandler) Delete(c *gin.Context) {
	userID := c.Param("user_id")
	sessionID := c.Param("session_id")
	if err := h.svc.Delete(userID, sessionID); err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Success(c, gin.H{"message": "会话已删除", "user_id": userID, "session_id": sessionID})
}
