package respond

import (
	contentEntity "MindLink/internal/modules/content/domain/entity"
	"MindLink/internal/modules/dialog/domain/entity"
	riskDomain "MindLink/internal/modules/risk/domain"
)

// EmotionRespond 情绪分析响应
type EmotionRespond struct {
	Text           string                 `json:"text"`
	Emotion        string                 `json:"emotion"`
	Confidence     float64                `json:"confidence"`
	ContextEmotion string                 `json:"context_emotion"`
	Trend          string                 `json:"trend"`
	UrgentIssue    riskDomain.RiskVerdict `json:"urgent_issue"`
}

// EmotionSummary 对话响应中的情绪摘要
type EmotionSummary struct {
	CurrentEmotion    string       `json:"current_emotion"`
	ContextEmotion    string       `json:"context_emotion"`
	ConversationStage entity.Stage `json:"conversation_stage"`
	EmotionTrend      string       `json:"emotion_trend"`
	TurnCount         int          `json:"turn_count"`
	KeyConcerns       []string     `json:"key_concerns"`
}

// ChatRespond 智能对话响应
//
// 业务路径上永远返回本结构，生成失败也有兜底文案
type ChatRespond struct {
	Response                string                      `json:"response"`
	EmotionSummary          EmotionSummary              `json:"emotion_summary"`
	UrgentIssue             riskDomain.RiskVerdict      `json:"urgent_issue"`
	Recommendations         []contentEntity.ContentItem `json:"recommendations"`
	RecommendationRationale string                      `json:"recommendation_rationale"`
}

// SessionSummaryRespond 会话摘要响应
type SessionSummaryRespond struct {
	UserID        string               `json:"user_id"`
	SessionID     string               `json:"session_id"`
	Summary       entity.Summary       `json:"summary"`
	RecentHistory []entity.Interaction `json:"recent_history"`
	Active        bool                 `json:"active"`
}
