package service

import (
	"context"
	"encoding/json"

	"MindLink/internal/modules/risk/infrastructure/caselog"
	"MindLink/internal/modules/risk/infrastructure/mq"
	"MindLink/pkg/zlog"

	"go.uber.org/zap"
)

// AlertService 将紧急案例投递到告警主题
//
// 文件日志是案例的权威存储，Kafka 投递仅作下游监控通道：
// 投递失败记日志后吞掉，绝不影响对话回复
type AlertService struct {
	publisher mq.Publisher
	topic     string
}

func NewAlertService(publisher mq.Publisher, topic string) *AlertService {
	return &AlertService{publisher: publisher, topic: topic}
}

// Enabled 是否配置了告警通道
func (s *AlertService) Enabled() bool {
	return s != nil && s.publisher != nil && s.topic != ""
}

// PublishCase 投递一条紧急案例
func (s *AlertService) PublishCase(ctx context.Context, record caselog.CaseRecord) {
	if !s.Enabled() {
		return
	}

	value, err := json.Marshal(record)
	if err != nil {
		zlog.Error("序列化告警消息失败", zap.Error(err))
		return
	}

	// 以会话为 key 保证同会话案例落在同一分区，顺序可读
	key := record.UserID + "_" + record.SessionID
	_, err = s.publisher.Publish(ctx, mq.Message{
		Topic: s.topic,
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"level": record.UrgentLevel,
		},
	})
	if err != nil {
		zlog.Error("投递紧急告警失败", zap.Error(err), zap.String("level", record.UrgentLevel))
		return
	}
	zlog.Info("紧急告警已投递", zap.String("level", record.UrgentLevel))
}

func (s *AlertService) Close() error {
	if s == nil || s.publisher == nil {
		return nil
	}
	return s.publisher.Close()
}
