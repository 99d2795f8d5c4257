package handler

import (
	"MindLink/internal/modules/dialog/application/dto/request"
	"MindLink/internal/modules/dialog/application/service"
	"MindLink/pkg/back"
	"MindLink/pkg/xerr"
	"MindLink/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat 智能对话
func (h *ChatHandler) Chat(c *gin.Context) {
	var chatReq request.ChatRequest
	if err := c.BindJSON(&chatReq); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Chat(c.Request.Context(), chatReq)
	back.Result(c, data, err)
}

// AnalyzeEmotion 单次情绪分析
func (h *ChatHandler) AnalyzeEmotion(c *gin.Context) {
	var textReq request.TextInput
	if err := c.BindJSON(&textReq); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.AnalyzeEmotion(c.Request.Context(), textReq)
	back.Result(c, data, err)
}
