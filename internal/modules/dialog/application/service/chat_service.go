package service

import (
	"context"
	"time"

	contentService "MindLink/internal/modules/content/application/service"
	contentEntity "MindLink/internal/modules/content/domain/entity"
	"MindLink/internal/modules/dialog/application/dto/request"
	"MindLink/internal/modules/dialog/application/dto/respond"
	"MindLink/internal/modules/dialog/domain/entity"
	"MindLink/internal/modules/dialog/domain/repository"
	emotionService "MindLink/internal/modules/emotion/application/service"
	riskService "MindLink/internal/modules/risk/application/service"
	riskDomain "MindLink/internal/modules/risk/domain"
	"MindLink/internal/modules/risk/infrastructure/caselog"
	"MindLink/pkg/util"
	"MindLink/pkg/xerr"
	"MindLink/pkg/zlog"

	"go.uber.org/zap"
)

const maxInputLength = 1000

// ChatService 单轮对话编排
//
// 固定顺序：风险检测（本地，先于一切生成调用）→ 情绪分析 →
// 回应选择 → 记录交互 → 紧急案例落盘/告警 → 按节奏推荐内容
type ChatService interface {
	Chat(ctx context.Context, req request.ChatRequest) (*respond.ChatRespond, error)
	AnalyzeEmotion(ctx context.Context, req request.TextInput) (*respond.EmotionRespond, error)
}

type chatServiceImpl struct {
	store      repository.SessionStore
	emotionSvc emotionService.EmotionService
	replySvc   ReplyService
	detector   *riskService.RiskDetector
	caseLogger *caselog.CaseLogger
	alertSvc   *riskService.AlertService
	recommends contentService.RecommendService
}

func NewChatService(
	store repository.SessionStore,
	emotionSvc emotionService.EmotionService,
	replySvc ReplyService,
	detector *riskService.RiskDetector,
	caseLogger *caselog.CaseLogger,
	alertSvc *riskService.AlertService,
	recommends contentService.RecommendService,
) ChatService {
	return &chatServiceImpl{
		store:      store,
		emotionSvc: emotionSvc,
		replySvc:   replySvc,
		detector:   detector,
		caseLogger: caseLogger,
		alertSvc:   alertSvc,
		recommends: recommends,
	}
}

func (s *chatServiceImpl) Chat(ctx context.Context, req request.ChatRequest) (*respond.ChatRespond, error) {
	if !util.ValidateUserInput(req.Text, maxInputLength) {
		return nil, xerr.ErrInvalidText
	}
	if req.UserID == "" || req.SessionID == "" {
		return nil, xerr.ErrParam
	}

	startTime := time.Now()
	zlog.Info("智能对话请求",
		zap.String("user", util.AnonymizeUserID(req.UserID)),
		zap.String("session", req.SessionID))

	// 1. 获取会话快照与摘要
	session, err := s.store.GetOrCreate(req.UserID, req.SessionID)
	if err != nil {
		zlog.Error("获取会话失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	summary := session.Summarize()

	// 2. 风险检测先于任何生成调用：本地检查为昂贵的下游行为把关
	//    先用"中性"占位获得词表命中，紧急路径不依赖情绪标签
	verdict := s.detector.Detect(req.Text, "中性")

	// 3. 情绪分析（失败自带中性兜底）
	surface, deep, _ := s.emotionSvc.Analyze(ctx, req.Text, summary)

	// 紧急判定不依赖情绪标签，占位结果即终态；
	// 警告路径的严重度依赖情绪增强因子，情绪已知后重评一次
	if verdict.Level != riskDomain.LevelUrgent {
		verdict = s.detector.Detect(req.Text, surface)
	}

	if verdict.Level.IsFlagged() {
		zlog.Warn("紧急情况检测",
			zap.String("level", string(verdict.Level)),
			zap.Strings("triggers", verdict.Triggers))
	}

	// 4. 回应选择：危机路径优先，可让位给阶段策略
	aiResponse := s.selectReply(ctx, req.Text, surface, deep, verdict, summary, session.RecentInteractions(3))

	// 5. 记录交互（会话状态唯一写入口）
	updated, err := s.store.RecordInteraction(req.UserID, req.SessionID, req.Text, surface, aiResponse)
	if err != nil {
		zlog.Error("记录交互失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	updatedSummary := updated.Summarize()

	// 6. 紧急案例落盘 + 可选告警投递，失败均不阻塞响应
	if verdict.Level.IsFlagged() {
		record := caselog.CaseRecord{
			UserID:            req.UserID,
			SessionID:         req.SessionID,
			UrgentLevel:       string(verdict.Level),
			Triggers:          verdict.Triggers,
			RiskScore:         verdict.RiskScore,
			UserInput:         util.TruncateRunes(req.Text, 200),
			Emotion:           surface,
			AIResponsePreview: util.TruncateRunes(aiResponse, 100),
		}
		s.caseLogger.LogCase(record)
		s.alertSvc.PublishCase(ctx, record)
	}

	// 7. 内容推荐：每5轮一次且不在 initial 阶段，失败降级为空
	recommendations := []contentEntity.ContentItem{}
	rationale := ""
	if shouldRecommend(updatedSummary) {
		recommendations, rationale, _ = s.recommends.Recommend(ctx, req.Text, surface, updatedSummary, 2)
		zlog.Info("内容推荐", zap.Int("count", len(recommendations)))
	}

	zlog.Info("对话处理完成",
		zap.Duration("elapsed", time.Since(startTime)),
		zap.String("stage", string(updatedSummary.ConversationStage)))

	return &respond.ChatRespond{
		Response: aiResponse,
		EmotionSummary: respond.EmotionSummary{
			CurrentEmotion:    surface,
			ContextEmotion:    deep,
			ConversationStage: updatedSummary.ConversationStage,
			EmotionTrend:      updatedSummary.EmotionTrend,
			TurnCount:         updatedSummary.TurnCount,
			KeyConcerns:       updatedSummary.KeyConcerns,
		},
		UrgentIssue:             verdict,
		Recommendations:         recommendations,
		RecommendationRationale: rationale,
	}, nil
}

// selectReply 风险级别 × 对话阶段的回应选择
func (s *chatServiceImpl) selectReply(ctx context.Context, text, surface, deep string, verdict riskDomain.RiskVerdict, summary entity.Summary, recent []entity.Interaction) string {
	if verdict.Level != riskDomain.LevelNormal {
		outcome := s.replySvc.CrisisReply(ctx, text, verdict)
		if outcome.Generated {
			return outcome.Text
		}
		// warning 级别生成为空时回落到常规路径
	}
	return s.replySvc.StageReply(ctx, text, surface, deep, summary, recent)
}

// shouldRecommend 推荐触发节奏：轮次≥2 且为5的倍数，阶段不在 initial
func shouldRecommend(summary entity.Summary) bool {
	if summary.TurnCount < 2 || summary.TurnCount%5 != 0 {
		return false
	}
	switch summary.ConversationStage {
	case entity.StageExploring, entity.StageDeepening, entity.StageResolving:
		return true
	default:
		return false
	}
}

func (s *chatServiceImpl) AnalyzeEmotion(ctx context.Context, req request.TextInput) (*respond.EmotionRespond, error) {
	if !util.ValidateUserInput(req.Text, maxInputLength) {
		return nil, xerr.ErrInvalidText
	}
	if req.UserID == "" {
		return nil, xerr.ErrParam
	}

	summary := entity.DefaultSummary()
	if req.SessionID != "" {
		var err error
		summary, err = s.store.Summarize(req.UserID, req.SessionID)
		if err != nil {
			zlog.Error("读取会话摘要失败", zap.Error(err))
			summary = entity.DefaultSummary()
		}
	}

	surface, deep, confidence := s.emotionSvc.Analyze(ctx, req.Text, summary)
	verdict := s.detector.Detect(req.Text, surface)

	if verdict.Level.IsFlagged() {
		zlog.Warn("紧急情况",
			zap.String("level", string(verdict.Level)),
			zap.String("user", util.AnonymizeUserID(req.UserID)))
	}

	return &respond.EmotionRespond{
		Text:           req.Text,
		Emotion:        surface,
		Confidence:     confidence,
		ContextEmotion: deep,
		Trend:          classifyTrend(surface, summary.RecentEmotions),
		UrgentIssue:    verdict,
	}, nil
}

// classifyTrend 单次分析视角的情绪趋势
func classifyTrend(current string, recent []string) string {
	if len(recent) == 0 {
		return "new"
	}
	if containsString(recent, current) {
		return "consistent"
	}
	negative := current == "焦虑" || current == "压力" || current == "愤怒"
	positive := current == "平静" || current == "中性" || current == "快乐"
	if negative && containsString(recent, "平静") {
		return "escalating"
	}
	if positive && containsString(recent, "焦虑") {
		return "calming"
	}
	return "new"
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
