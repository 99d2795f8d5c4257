package persistence

import (
	"sync"

	"MindLink/internal/modules/dialog/domain/entity"
	"MindLink/internal/modules/dialog/domain/repository"
)

type sessionEntry struct {
	mu      sync.Mutex
	session *entity.Session
}

// memorySessionStore 进程内会话注册表
//
// 外层锁只保护注册表本身，单个会话的状态由条目级互斥锁串行化，
// 跨会话的并发互不阻塞
type memorySessionStore struct {
	mu         sync.RWMutex
	entries    map[string]*sessionEntry
	maxHistory int
}

func NewMemorySessionStore(maxHistory int) repository.SessionStore {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &memorySessionStore{
		entries:    make(map[string]*sessionEntry),
		maxHistory: maxHistory,
	}
}

func (s *memorySessionStore) entryOf(userID, sessionID string) *sessionEntry {
	key := entity.Key(userID, sessionID)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[key]; ok {
		return e
	}
	e = &sessionEntry{session: entity.NewSession(userID, sessionID)}
	s.entries[key] = e
	return e
}

func (s *memorySessionStore) GetOrCreate(userID, sessionID string) (*entity.Session, error) {
	e := s.entryOf(userID, sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

func (s *memorySessionStore) RecordInteraction(userID, sessionID, userInput, emotion, aiResponse string) (*entity.Session, error) {
	e := s.entryOf(userID, sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Record(userInput, emotion, aiResponse, s.maxHistory)
	return e.session.Clone(), nil
}

func (s *memorySessionStore) Summarize(userID, sessionID string) (entity.Summary, error) {
	key := entity.Key(userID, sessionID)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		// 从未访问过的会话返回默认摘要，不隐式建会话
		return entity.DefaultSummary(), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Summarize(), nil
}

func (s *memorySessionStore) Delete(userID, sessionID string) error {
	key := entity.Key(userID, sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
