package handler

import (
	"strconv"

	"MindLink/internal/modules/content/application/dto/request"
	"MindLink/internal/modules/content/application/service"
	contentEntity "MindLink/internal/modules/content/domain/entity"
	"MindLink/internal/modules/dialog/domain/repository"
	"MindLink/pkg/back"
	"MindLink/pkg/util"
	"MindLink/pkg/xerr"
	"MindLink/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentSvc   service.ContentService
	recommendSvc service.RecommendService
	sessionStore repository.SessionStore
}

func NewContentHandler(contentSvc service.ContentService, recommendSvc service.RecommendService, sessionStore repository.SessionStore) *ContentHandler {
	return &ContentHandler{
		contentSvc:   contentSvc,
		recommendSvc: recommendSvc,
		sessionStore: sessionStore,
	}
}

// Recommend 按当前情绪与会话上下文推荐内容
func (h *ContentHandler) Recommend(c *gin.Context) {
	var req request.RecommendRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	if !util.ValidateUserInput(req.Text, 1000) {
		back.Error(c, xerr.ErrInvalidText.Code, xerr.ErrInvalidText.Message)
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > 10 {
		limit = 3
	}

	summary, err := h.sessionStore.Summarize(req.UserID, req.SessionID)
	if err != nil {
		zlog.Error("读取会话摘要失败: " + err.Error())
		back.Error(c, xerr.InternalServerError, xerr.ErrServerError.Message)
		return
	}

	items, rationale, scores := h.recommendSvc.Recommend(c.Request.Context(), req.Text, summary.PrimaryEmotion, summary, limit)
	back.Success(c, gin.H{
		"recommendations": items,
		"rationale":       rationale,
		"match_scores":    scores,
	})
}

// Search 关键词检索
func (h *ContentHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	data, err := h.contentSvc.Search(query, limit)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Success(c, gin.H{"query": query, "results": data, "count": len(data)})
}

// Stats 内容库统计
func (h *ContentHandler) Stats(c *gin.Context) {
	data, err := h.contentSvc.Stats()
	back.Result(c, data, err)
}

// Detail 内容详情，访问会增加热度
func (h *ContentHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	data, err := h.contentSvc.Detail(id)
	back.Result(c, data, err)
}

// Add 管理端新增内容
func (h *ContentHandler) Add(c *gin.Context) {
	var req request.AddContentRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	item := &contentEntity.ContentItem{
		Id:              req.Id,
		Title:           req.Title,
		Type:            req.Type,
		Category:        req.Category,
		Description:     req.Description,
		URL:             req.URL,
		DurationMinutes: req.DurationMinutes,
		Difficulty:      req.Difficulty,
		Tags:            req.Tags,
		EmotionTags:     req.EmotionTags,
	}
	if err := h.contentSvc.Add(item); err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Success(c, gin.H{"message": "内容已添加", "id": item.Id})
}
