package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"MindLink/internal/modules/dialog/domain/entity"
	"MindLink/internal/modules/dialog/domain/repository"
	"MindLink/pkg/redis"
	"MindLink/pkg/zlog"

	"go.uber.org/zap"
)

const redisKeyPrefix = "mindlink:session:"

// redisSessionStore 基于 Redis 的会话存储
//
// 会话以 JSON 快照整体读写，带会话超时 TTL。写路径在进程内按键
// 加锁做 read-modify-write，保证同会话的记录按到达顺序串行。
// 多实例部署时需要外部粘性路由，这里不做分布式锁。
type redisSessionStore struct {
	mu         sync.Mutex
	locks      map[string]*sync.Mutex
	maxHistory int
	ttl        time.Duration
}

func NewRedisSessionStore(maxHistory int, ttl time.Duration) repository.SessionStore {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisSessionStore{
		locks:      make(map[string]*sync.Mutex),
		maxHistory: maxHistory,
		ttl:        ttl,
	}
}

func (s *redisSessionStore) lockOf(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *redisSessionStore) load(ctx context.Context, userID, sessionID string) (*entity.Session, bool, error) {
	raw, err := redis.Get(ctx, redisKeyPrefix+entity.Key(userID, sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return entity.NewSession(userID, sessionID), false, nil
		}
		return nil, false, err
	}
	var sess entity.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		zlog.Error("反序列化会话失败，重建空会话", zap.Error(err))
		return entity.NewSession(userID, sessionID), false, nil
	}
	return &sess, true, nil
}

func (s *redisSessionStore) save(ctx context.Context, sess *entity.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return redis.Set(ctx, redisKeyPrefix+entity.Key(sess.UserID, sess.SessionID), string(data), s.ttl)
}

func (s *redisSessionStore) GetOrCreate(userID, sessionID string) (*entity.Session, error) {
	key := entity.Key(userID, sessionID)
	l := s.lockOf(key)
	l.Lock()
	defer l.Unlock()

	ctx := context.Background()
	sess, found, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *redisSessionStore) RecordInteraction(userID, sessionID, userInput, emotion, aiResponse string) (*entity.Session, error) {
	key := entity.Key(userID, sessionID)
	l := s.lockOf(key)
	l.Lock()
	defer l.Unlock()

	ctx := context.Background()
	sess, _, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Record(userInput, emotion, aiResponse, s.maxHistory)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *redisSessionStore) Summarize(userID, sessionID string) (entity.Summary, error) {
	ctx := context.Background()
	sess, found, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return entity.DefaultSummary(), err
	}
	if !found {
		return entity.DefaultSummary(), nil
	}
	return sess.Summarize(), nil
}

func (s *redisSessionStore) Delete(userID, sessionID string) error {
	key := entity.Key(userID, sessionID)
	// 互斥量在键的生命周期内保留：删除后若立即有新写入，
	// 仍与正在排队的旧写入者共用同一把锁
	l := s.lockOf(key)
	l.Lock()
	defer l.Unlock()

	_, err := redis.Del(context.Background(), redisKeyPrefix+key)
	return err
}

func (s *redisSessionStore) Count() int {
	n, err := redis.CountKeys(context.Background(), redisKeyPrefix+"*")
	if err != nil {
		zlog.Error("统计会话数失败", zap.Error(err))
		return 0
	}
	return n
}
