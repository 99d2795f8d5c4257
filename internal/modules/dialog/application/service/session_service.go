package service

import (
	"MindLink/internal/modules/dialog/application/dto/respond"
	"MindLink/internal/modules/dialog/domain/repository"
	"MindLink/pkg/util"
	"MindLink/pkg/xerr"
	"MindLink/pkg/zlog"

	"go.uber.org/zap"
)

// SessionService 会话查询与生命周期管理
type SessionService interface {
	// Summary 会话摘要；无任何历史的会话返回 404
	Summary(userID, sessionID string) (*respond.SessionSummaryRespond, error)
	// Delete 幂等删除会话
	Delete(userID, sessionID string) error
	// ActiveCount 当前活跃会话数
	ActiveCount() int
}

type sessionServiceImpl struct {
	store repository.SessionStore
}

func NewSessionService(store repository.SessionStore) SessionService {
	return &sessionServiceImpl{store: store}
}

func (s *sessionServiceImpl) Summary(userID, sessionID string) (*respond.SessionSummaryRespond, error) {
	if userID == "" || sessionID == "" {
		return nil, xerr.ErrParam
	}

	// 先走只读摘要，避免查询路径创建空会话
	summary, err := s.store.Summarize(userID, sessionID)
	if err != nil {
		zlog.Error("读取会话摘要失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if summary.TurnCount == 0 {
		return nil, xerr.ErrNotFound
	}

	session, err := s.store.GetOrCreate(userID, sessionID)
	if err != nil {
		zlog.Error("获取会话失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	return &respond.SessionSummaryRespond{
		UserID:        userID,
		SessionID:     sessionID,
		Summary:       summary,
		RecentHistory: session.RecentInteractions(5),
		Active:        true,
	}, nil
}

func (s *sessionServiceImpl) Delete(userID, sessionID string) error {
	if userID == "" || sessionID == "" {
		return xerr.ErrParam
	}
	if err := s.store.Delete(userID, sessionID); err != nil {
		zlog.Error("删除会话失败", zap.Error(err))
		return xerr.ErrServerError
	}
	zlog.Info("会话已删除", zap.String("user", util.AnonymizeUserID(userID)), zap.String("session", sessionID))
	return nil
}

func (s *sessionServiceImpl) ActiveCount() int {
	return s.store.Count()
}
