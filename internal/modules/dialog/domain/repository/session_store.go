package repository

import "MindLink/internal/modules/dialog/domain/entity"

// SessionStore 会话注册表
//
// 实现必须保证同一会话键上的 RecordInteraction 按到达顺序串行执行；
// 不同会话之间互不阻塞。返回的 Session 均为快照副本，调用方不得
// 跨调用持有可变引用。
type SessionStore interface {
	// GetOrCreate 幂等获取会话快照，首次访问创建空会话
	GetOrCreate(userID, sessionID string) (*entity.Session, error)
	// RecordInteraction 会话状态的唯一写入口，返回更新后的快照
	RecordInteraction(userID, sessionID, userInput, emotion, aiResponse string) (*entity.Session, error)
	// Summarize 空会话返回默认摘要，永不报"会话不存在"
	Summarize(userID, sessionID string) (entity.Summary, error)
	// Delete 幂等删除
	Delete(userID, sessionID string) error
	// Count 当前活跃会话数
	Count() int
}
