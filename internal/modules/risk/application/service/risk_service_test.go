package service

import (
	"testing"

	"MindLink/internal/modules/risk/domain"
)

func TestDetectNormal(t *testing.T) {
	d := NewRiskDetector()
	verdict := d.Detect("今天天气不错，我去图书馆看了一下午书", "中性")

	if verdict.Level != domain.LevelNormal {
		t.Fatalf("expected normal, got %s", verdict.Level)
	}
	if verdict.RiskScore != 0.0 {
		t.Errorf("normal risk score should be 0.0, got %f", verdict.RiskScore)
	}
	if len(verdict.Triggers) != 0 {
		t.Errorf("normal triggers should be empty, got %v", verdict.Triggers)
	}
	if verdict.Triggers == nil || verdict.Suggestions == nil {
		t.Errorf("normal verdict slices should be non-nil empty")
	}
}

func TestDetectUrgentOverridesWarning(t *testing.T) {
	d := NewRiskDetector()
	// 同时命中紧急词和警告词
	verdict := d.Detect("我好累，撑不住了，真的不想活了", "抑郁")

	if verdict.Level != domain.LevelUrgent {
		t.Fatalf("expected urgent, got %s", verdict.Level)
	}
	if verdict.RiskScore != 10.0 {
		t.Errorf("urgent risk score must be exactly 10.0, got %f", verdict.RiskScore)
	}
	if len(verdict.Resources) == 0 {
		t.Errorf("urgent verdict must carry emergency resources")
	}
	found := false
	for _, tr := range verdict.Triggers {
		if tr == "不想活了" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected trigger 不想活了 in %v", verdict.Triggers)
	}
}

func TestDetectUrgentIgnoresEmotion(t *testing.T) {
	d := NewRiskDetector()
	a := d.Detect("我想死", "中性")
	b := d.Detect("我想死", "抑郁")
	if a.Level != domain.LevelUrgent || b.Level != domain.LevelUrgent {
		t.Fatalf("urgent detection must not depend on emotion")
	}
	if a.RiskScore != b.RiskScore {
		t.Errorf("urgent risk score must not depend on emotion: %f vs %f", a.RiskScore, b.RiskScore)
	}
}

func TestWarningSeverityMonotonic(t *testing.T) {
	d := NewRiskDetector()
	one := d.Detect("最近感觉好累", "中性")
	two := d.Detect("最近感觉好累，总是很孤独", "中性")

	if one.Level != domain.LevelWarning {
		t.Fatalf("expected warning, got %s", one.Level)
	}
	if two.RiskScore <= one.RiskScore {
		t.Errorf("more triggers must not lower the score: %f vs %f", one.RiskScore, two.RiskScore)
	}
}

func TestWarningEmotionEnhancer(t *testing.T) {
	d := NewRiskDetector()
	neutral := d.Detect("感觉崩溃", "中性")
	depressed := d.Detect("感觉崩溃", "抑郁")

	if neutral.RiskScore != 2.0 {
		t.Errorf("single trigger neutral score should be 2.0, got %f", neutral.RiskScore)
	}
	if depressed.RiskScore != 4.0 {
		t.Errorf("抑郁 enhancer should double the score, got %f", depressed.RiskScore)
	}
}

func TestWarningHighEscalation(t *testing.T) {
	d := NewRiskDetector()
	// 两个警告词 × 抑郁 2.0 = 严重度 4，达到 warning_high
	verdict := d.Detect("我好累，觉得很孤独", "抑郁")

	if verdict.Level != domain.LevelWarningHigh {
		t.Fatalf("expected warning_high, got %s", verdict.Level)
	}
}

func TestWarningScoreCeiling(t *testing.T) {
	d := NewRiskDetector()
	// 大量警告词命中，得分必须停在 9.9 以下，10.0 专属紧急路径
	verdict := d.Detect("活不下去，没意思，太痛苦，撑不住，崩溃，想消失，好累，孤独，无助，没有希望，想放弃", "抑郁")

	if verdict.Level != domain.LevelWarningHigh {
		t.Fatalf("expected warning_high, got %s", verdict.Level)
	}
	if verdict.RiskScore != 9.9 {
		t.Errorf("warning score must cap at 9.9, got %f", verdict.RiskScore)
	}
}

func TestDetectSubstringSemantics(t *testing.T) {
	d := NewRiskDetector()
	// 子串匹配不识别否定，"不想死"仍命中"想死"
	verdict := d.Detect("我才不想死呢", "中性")
	if verdict.Level != domain.LevelUrgent {
		t.Fatalf("substring matching should hit 想死, got %s", verdict.Level)
	}
}

func TestIsFlagged(t *testing.T) {
	cases := []struct {
		level   domain.Level
		flagged bool
	}{
		{domain.LevelNormal, false},
		{domain.LevelWarning, false},
		{domain.LevelWarningHigh, true},
		{domain.LevelUrgent, true},
	}
	for _, c := range cases {
		if c.level.IsFlagged() != c.flagged {
			t.Errorf("IsFlagged(%s) = %v, want %v", c.level, c.level.IsFlagged(), c.flagged)
		}
	}
}
