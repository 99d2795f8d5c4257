package entity

import (
	"fmt"
	"testing"
)

func TestDefaultSummary(t *testing.T) {
	s := DefaultSummary()
	if s.ConversationStage != StageInitial {
		t.Errorf("stage = %s, want initial", s.ConversationStage)
	}
	if s.PrimaryEmotion != "中性" {
		t.Errorf("primary emotion = %s, want 中性", s.PrimaryEmotion)
	}
	if s.EmotionTrend != "new" {
		t.Errorf("trend = %s, want new", s.EmotionTrend)
	}
	if s.TurnCount != 0 {
		t.Errorf("turn count = %d, want 0", s.TurnCount)
	}
	if s.KeyConcerns == nil || len(s.KeyConcerns) != 0 {
		t.Errorf("key concerns should be empty non-nil")
	}
}

func TestStageForTurnCount(t *testing.T) {
	cases := []struct {
		turns int
		want  Stage
	}{
		{0, StageInitial},
		{1, StageInitial},
		{2, StageInitial},
		{3, StageExploring},
		{6, StageExploring},
		{7, StageDeepening},
		{12, StageDeepening},
		{13, StageResolving},
		{100, StageResolving},
	}
	for _, c := range cases {
		if got := StageForTurnCount(c.turns); got != c.want {
			t.Errorf("StageForTurnCount(%d) = %s, want %s", c.turns, got, c.want)
		}
	}
}

func TestRecordHistoryBound(t *testing.T) {
	s := NewSession("u1", "s1")
	for i := 0; i < 25; i++ {
		s.Record(fmt.Sprintf("输入%d", i), "中性", fmt.Sprintf("回应%d", i), 20)
	}

	if len(s.History) != 20 {
		t.Fatalf("history length = %d, want 20", len(s.History))
	}
	// 淘汰最旧条目，保序
	if s.History[0].UserInput != "输入5" {
		t.Errorf("oldest retained = %s, want 输入5", s.History[0].UserInput)
	}
	if s.History[19].UserInput != "输入24" {
		t.Errorf("newest retained = %s, want 输入24", s.History[19].UserInput)
	}
}

func TestStageSticky(t *testing.T) {
	s := NewSession("u1", "s1")
	// 窗口上限 3：累计到第 7 轮时历史长度被截到 3，
	// 但阶段一旦前进就不回退
	for i := 0; i < 7; i++ {
		s.Record("考试压力好大", "焦虑", "回应", 3)
	}
	if len(s.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(s.History))
	}
	// len(History)=3 对应 exploring，但此前已到达 exploring 就不会退回 initial
	if s.Stage != StageExploring {
		t.Errorf("stage = %s, want exploring", s.Stage)
	}

	s2 := NewSession("u2", "s2")
	for i := 0; i < 13; i++ {
		s2.Record("输入", "中性", "回应", 20)
	}
	if s2.Stage != StageResolving {
		t.Fatalf("stage after 13 turns = %s, want resolving", s2.Stage)
	}
	// 窗口截断后 Summarize 的阶段仍为 resolving
	if got := s2.Summarize().ConversationStage; got != StageResolving {
		t.Errorf("summary stage = %s, want resolving", got)
	}
}

func TestSeventhTurnDeepening(t *testing.T) {
	s := NewSession("u1", "s1")
	for i := 0; i < 6; i++ {
		s.Record("输入", "中性", "回应", 20)
	}
	if s.Stage != StageExploring {
		t.Fatalf("stage after 6 turns = %s, want exploring", s.Stage)
	}
	s.Record("第七轮", "中性", "回应", 20)
	if s.Stage != StageDeepening {
		t.Errorf("stage after 7 turns = %s, want deepening", s.Stage)
	}
}

func TestKeyConcernsAppendOnly(t *testing.T) {
	s := NewSession("u1", "s1")

	s.Record("考试压力好大", "焦虑", "回应", 20)
	if len(s.KeyConcerns) < 1 || s.KeyConcerns[0] != "academic" {
		t.Fatalf("concerns = %v, want academic first", s.KeyConcerns)
	}

	// 同类关键词再次出现不重复
	s.Record("还是在担心成绩", "焦虑", "回应", 20)
	countAcademic := 0
	for _, c := range s.KeyConcerns {
		if c == "academic" {
			countAcademic++
		}
	}
	if countAcademic != 1 {
		t.Errorf("academic should appear once, concerns = %v", s.KeyConcerns)
	}

	// 新类别追加在尾部，不重排
	s.Record("和室友吵架了", "愤怒", "回应", 20)
	if !containsConcern(s.KeyConcerns, "relationship") {
		t.Fatalf("expected relationship in %v", s.KeyConcerns)
	}
	if s.KeyConcerns[0] != "academic" {
		t.Errorf("existing order must not change, concerns = %v", s.KeyConcerns)
	}
}

func TestKeyConcernsCap(t *testing.T) {
	s := NewSession("u1", "s1")
	// 一条输入同时命中全部类别
	s.Record("我和室友关系不好，考试也复习不完，对未来很迷茫，觉得自己性格有问题", "焦虑", "回应", 20)
	if len(s.KeyConcerns) > maxKeyConcerns {
		t.Fatalf("concerns exceed cap: %v", s.KeyConcerns)
	}
}

func TestSummarizePrimaryEmotionTieBreak(t *testing.T) {
	s := NewSession("u1", "s1")
	// 计数相同时保留先出现的标签
	s.Record("a", "焦虑", "r", 20)
	s.Record("b", "压力", "r", 20)

	summary := s.Summarize()
	if summary.PrimaryEmotion != "焦虑" {
		t.Errorf("tie break should keep first-seen, got %s", summary.PrimaryEmotion)
	}
}

func TestSummarizeTrend(t *testing.T) {
	s := NewSession("u1", "s1")
	for _, e := range []string{"中性", "焦虑", "压力", "焦虑"} {
		s.Record("输入", e, "回应", 20)
	}
	if got := s.Summarize().EmotionTrend; got != "escalating" {
		t.Errorf("trend = %s, want escalating", got)
	}

	s2 := NewSession("u2", "s2")
	for _, e := range []string{"焦虑", "平静", "中性", "快乐"} {
		s2.Record("输入", e, "回应", 20)
	}
	if got := s2.Summarize().EmotionTrend; got != "improving" {
		t.Errorf("trend = %s, want improving", got)
	}

	s3 := NewSession("u3", "s3")
	for _, e := range []string{"焦虑", "快乐", "焦虑"} {
		s3.Record("输入", e, "回应", 20)
	}
	if got := s3.Summarize().EmotionTrend; got != "stable" {
		t.Errorf("trend = %s, want stable", got)
	}
}

func TestSummarizeRecentEmotions(t *testing.T) {
	s := NewSession("u1", "s1")
	for _, e := range []string{"中性", "焦虑", "压力", "抑郁", "愤怒"} {
		s.Record("输入", e, "回应", 20)
	}
	summary := s.Summarize()
	if len(summary.RecentEmotions) != 3 {
		t.Fatalf("recent emotions length = %d, want 3", len(summary.RecentEmotions))
	}
	want := []string{"压力", "抑郁", "愤怒"}
	for i, e := range want {
		if summary.RecentEmotions[i] != e {
			t.Errorf("recent[%d] = %s, want %s", i, summary.RecentEmotions[i], e)
		}
	}
}

func TestRecentInteractions(t *testing.T) {
	s := NewSession("u1", "s1")
	for i := 0; i < 5; i++ {
		s.Record(fmt.Sprintf("输入%d", i), "中性", "回应", 20)
	}
	recent := s.RecentInteractions(3)
	if len(recent) != 3 {
		t.Fatalf("recent length = %d, want 3", len(recent))
	}
	if recent[0].UserInput != "输入2" || recent[2].UserInput != "输入4" {
		t.Errorf("recent window wrong: %v", recent)
	}

	if got := s.RecentInteractions(0); got != nil {
		t.Errorf("n=0 should return nil")
	}
}

func TestCloneIndependence(t *testing.T) {
	s := NewSession("u1", "s1")
	s.Record("考试压力", "焦虑", "回应", 20)

	clone := s.Clone()
	clone.History[0].UserInput = "被改写"
	clone.KeyConcerns = append(clone.KeyConcerns, "future")

	if s.History[0].UserInput != "考试压力" {
		t.Errorf("clone mutation leaked into original history")
	}
	if containsConcern(s.KeyConcerns, "future") {
		t.Errorf("clone mutation leaked into original concerns")
	}
}
