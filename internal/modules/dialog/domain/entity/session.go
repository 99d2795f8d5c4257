package entity

import (
	"strings"
	"time"

	"MindLink/pkg/util"
)

// Stage 对话阶段，由累计轮次驱动回应策略和推荐时机
type Stage string

const (
	StageInitial   Stage = "initial"
	StageExploring Stage = "exploring"
	StageDeepening Stage = "deepening"
	StageResolving Stage = "resolving"
)

// stageRank 用于高水位比较
func stageRank(s Stage) int {
	switch s {
	case StageExploring:
		return 1
	case StageDeepening:
		return 2
	case StageResolving:
		return 3
	default:
		return 0
	}
}

// StageForTurnCount 按累计轮次划分阶段：≤2 initial，≤6 exploring，≤12 deepening，否则 resolving
func StageForTurnCount(n int) Stage {
	switch {
	case n <= 2:
		return StageInitial
	case n <= 6:
		return StageExploring
	case n <= 12:
		return StageDeepening
	default:
		return StageResolving
	}
}

// maxStage 取两者中更靠后的阶段
func maxStage(a, b Stage) Stage {
	if stageRank(b) > stageRank(a) {
		return b
	}
	return a
}

// Interaction 一次完整交互，创建后不可变
type Interaction struct {
	Timestamp       string `json:"timestamp"`
	UserInput       string `json:"user_input"`
	DetectedEmotion string `json:"detected_emotion"`
	AIResponse      string `json:"ai_response"`
}

// EmotionPoint 情绪时间线节点
type EmotionPoint struct {
	Time        string `json:"time"`
	Emotion     string `json:"emotion"`
	TextSnippet string `json:"text_snippet"`
}

// Summary 对话摘要，调用方无需区分"会话尚不存在"
type Summary struct {
	ConversationStage Stage    `json:"conversation_stage"`
	PrimaryEmotion    string   `json:"primary_emotion"`
	EmotionTrend      string   `json:"emotion_trend"`
	KeyConcerns       []string `json:"key_concerns"`
	TurnCount         int      `json:"turn_count"`
	RecentEmotions    []string `json:"recent_emotions"`
}

// DefaultSummary 空会话的默认摘要
func DefaultSummary() Summary {
	return Summary{
		ConversationStage: StageInitial,
		PrimaryEmotion:    "中性",
		EmotionTrend:      "new",
		KeyConcerns:       []string{},
		TurnCount:         0,
		RecentEmotions:    []string{},
	}
}

// maxKeyConcerns 关切点上限
const maxKeyConcerns = 5

// concernKeywords 关切点分类词表，按类别做子串匹配
var concernKeywords = map[string][]string{
	"relationship": {"对象", "男朋友", "女朋友", "室友", "朋友", "关系"},
	"academic":     {"考试", "学习", "论文", "毕业", "成绩", "复习"},
	"future":       {"将来", "未来", "以后", "规划", "方向"},
	"self":         {"我", "自己", "个人", "性格", "习惯"},
}

// concernOrder 固定扫描顺序，保证同一输入的归类结果稳定
var concernOrder = []string{"relationship", "academic", "future", "self"}

// 情绪趋势判定集合
var (
	escalatingEmotions = map[string]bool{"焦虑": true, "压力": true, "愤怒": true}
	improvingEmotions  = map[string]bool{"平静": true, "中性": true, "快乐": true}
)

// Session 会话状态，由 SessionStore 独占持有
type Session struct {
	UserID          string         `json:"user_id"`
	SessionID       string         `json:"session_id"`
	History         []Interaction  `json:"history"`
	EmotionTimeline []EmotionPoint `json:"emotion_timeline"`
	KeyConcerns     []string       `json:"key_concerns"`
	// Stage 为高水位值：只随历史增长前进，窗口截断不会使其回退
	Stage      Stage     `json:"conversation_stage"`
	LastActive time.Time `json:"last_active"`
}

// NewSession 创建空会话
func NewSession(userID, sessionID string) *Session {
	return &Session{
		UserID:          userID,
		SessionID:       sessionID,
		History:         []Interaction{},
		EmotionTimeline: []EmotionPoint{},
		KeyConcerns:     []string{},
		Stage:           StageInitial,
		LastActive:      time.Now(),
	}
}

// Key 会话复合键
func Key(userID, sessionID string) string {
	return userID + "_" + sessionID
}

// Record 追加一次交互并更新派生状态
//
// maxHistory 为历史窗口上限，超出时淘汰最旧条目
func (s *Session) Record(userInput, emotion, aiResponse string, maxHistory int) {
	now := time.Now()

	s.History = append(s.History, Interaction{
		Timestamp:       now.Format(time.RFC3339),
		UserInput:       userInput,
		DetectedEmotion: emotion,
		AIResponse:      aiResponse,
	})
	if maxHistory > 0 && len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}

	s.EmotionTimeline = append(s.EmotionTimeline, EmotionPoint{
		Time:        now.Format(time.RFC3339),
		Emotion:     emotion,
		TextSnippet: util.TruncateRunes(userInput, 50),
	})

	s.Stage = maxStage(s.Stage, StageForTurnCount(len(s.History)))
	s.extractKeyConcerns(userInput)
	s.LastActive = now
}

// extractKeyConcerns 扫描输入补充关切点；已有类别不重复、不重排
func (s *Session) extractKeyConcerns(userInput string) {
	for _, concern := range concernOrder {
		if len(s.KeyConcerns) >= maxKeyConcerns {
			return
		}
		if containsConcern(s.KeyConcerns, concern) {
			continue
		}
		for _, keyword := range concernKeywords[concern] {
			if strings.Contains(userInput, keyword) {
				s.KeyConcerns = append(s.KeyConcerns, concern)
				break
			}
		}
	}
}

func containsConcern(concerns []string, concern string) bool {
	for _, c := range concerns {
		if c == concern {
			return true
		}
	}
	return false
}

// RecentInteractions 最近 n 轮交互
func (s *Session) RecentInteractions(n int) []Interaction {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= n {
		out := make([]Interaction, len(s.History))
		copy(out, s.History)
		return out
	}
	out := make([]Interaction, n)
	copy(out, s.History[len(s.History)-n:])
	return out
}

// Summarize 派生对话摘要
func (s *Session) Summarize() Summary {
	if len(s.History) == 0 {
		return DefaultSummary()
	}

	start := len(s.History) - 5
	if start < 0 {
		start = 0
	}
	emotions := make([]string, 0, 5)
	for _, h := range s.History[start:] {
		emotions = append(emotions, h.DetectedEmotion)
	}

	// 众数，计数相同时保留先出现的标签
	counts := make(map[string]int, len(emotions))
	primary := "中性"
	best := 0
	for _, e := range emotions {
		counts[e]++
	}
	for _, e := range emotions {
		if counts[e] > best {
			best = counts[e]
			primary = e
		}
	}

	trend := "stable"
	if len(emotions) >= 3 {
		recent := emotions[len(emotions)-3:]
		if allIn(recent, escalatingEmotions) {
			trend = "escalating"
		} else if allIn(recent, improvingEmotions) {
			trend = "improving"
		}
	}

	recentEmotions := emotions
	if len(recentEmotions) > 3 {
		recentEmotions = recentEmotions[len(recentEmotions)-3:]
	}

	concerns := make([]string, len(s.KeyConcerns))
	copy(concerns, s.KeyConcerns)

	return Summary{
		ConversationStage: s.Stage,
		PrimaryEmotion:    primary,
		EmotionTrend:      trend,
		KeyConcerns:       concerns,
		TurnCount:         len(s.History),
		RecentEmotions:    recentEmotions,
	}
}

func allIn(emotions []string, set map[string]bool) bool {
	for _, e := range emotions {
		if !set[e] {
			return false
		}
	}
	return true
}

// Clone 深拷贝，存储层用它保证会话状态不外泄
func (s *Session) Clone() *Session {
	out := &Session{
		UserID:          s.UserID,
		SessionID:       s.SessionID,
		History:         make([]Interaction, len(s.History)),
		EmotionTimeline: make([]EmotionPoint, len(s.EmotionTimeline)),
		KeyConcerns:     make([]string, len(s.KeyConcerns)),
		Stage:           s.Stage,
		LastActive:      s.LastActive,
	}
	copy(out.History, s.History)
	copy(out.EmotionTimeline, s.EmotionTimeline)
	copy(out.KeyConcerns, s.KeyConcerns)
	return out
}
