package handler

import (
	"strconv"

	"MindLink/internal/modules/risk/domain"
	"MindLink/internal/modules/risk/infrastructure/caselog"
	"MindLink/pkg/back"

	"github.com/gin-gonic/gin"
)

type UrgentHandler struct {
	caseLogger *caselog.CaseLogger
}

func NewUrgentHandler(caseLogger *caselog.CaseLogger) *UrgentHandler {
	return &UrgentHandler{caseLogger: caseLogger}
}

// RecentCases 紧急案例查询，查询窗口最大30天
func (h *UrgentHandler) RecentCases(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		days = 7
	}
	if days > 30 {
		days = 30
	}
	level := c.Query("level")

	report := h.caseLogger.RecentCases(days, level)
	back.Success(c, report)
}

// EmergencyResources 紧急援助资源列表
func (h *UrgentHandler) EmergencyResources(c *gin.Context) {
	back.Success(c, gin.H{
		"resources": domain.EmergencyResources(),
		"message":   "如果你正处于紧急情况，请立即拨打热线或前往附近医院",
	})
}
