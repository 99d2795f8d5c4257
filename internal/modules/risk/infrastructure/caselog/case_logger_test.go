package caselog

import (
	"testing"
	"time"
)

func newTestLogger(t *testing.T) *CaseLogger {
	t.Helper()
	return NewCaseLogger(t.TempDir())
}

func record(level string, score float64, ts time.Time) CaseRecord {
	return CaseRecord{
		Timestamp:   ts.Format(time.RFC3339),
		UserID:      "u1",
		SessionID:   "s1",
		UrgentLevel: level,
		Triggers:    []string{"不想活了"},
		RiskScore:   score,
		UserInput:   "测试输入",
		Emotion:     "抑郁",
	}
}

func TestLogCaseAndQuery(t *testing.T) {
	l := newTestLogger(t)
	now := time.Now()

	l.LogCase(record("urgent", 10.0, now))
	l.LogCase(record("warning", 2.0, now.Add(time.Minute)))

	report := l.RecentCases(1, "")
	if report.Statistics.TotalCases != 2 {
		t.Fatalf("total = %d, want 2", report.Statistics.TotalCases)
	}
	if report.Statistics.UrgentCount != 1 || report.Statistics.WarningCount != 1 {
		t.Errorf("counts wrong: %+v", report.Statistics)
	}
	if report.Statistics.AvgRiskScore != 6.0 {
		t.Errorf("avg = %f, want 6.0", report.Statistics.AvgRiskScore)
	}
	// 时间倒序
	if report.Cases[0].UrgentLevel != "warning" {
		t.Errorf("newest first expected, got %s", report.Cases[0].UrgentLevel)
	}
}

func TestRecentCasesLevelFilter(t *testing.T) {
	l := newTestLogger(t)
	now := time.Now()

	l.LogCase(record("urgent", 10.0, now))
	l.LogCase(record("warning_high", 8.0, now))
	l.LogCase(record("warning", 2.0, now))

	report := l.RecentCases(1, "urgent")
	if report.Statistics.TotalCases != 1 {
		t.Fatalf("filtered total = %d, want 1", report.Statistics.TotalCases)
	}
	if report.Cases[0].UrgentLevel != "urgent" {
		t.Errorf("filter leaked other levels")
	}
}

func TestRecentCasesEmpty(t *testing.T) {
	l := newTestLogger(t)

	report := l.RecentCases(7, "")
	if report.Statistics.TotalCases != 0 {
		t.Errorf("empty dir total = %d, want 0", report.Statistics.TotalCases)
	}
	if report.Cases == nil {
		t.Errorf("cases must be empty non-nil slice")
	}
	if report.Statistics.PeriodDays != 7 {
		t.Errorf("period days = %d, want 7", report.Statistics.PeriodDays)
	}
}

func TestLogCaseFillsTimestamp(t *testing.T) {
	l := newTestLogger(t)

	l.LogCase(CaseRecord{UserID: "u1", SessionID: "s1", UrgentLevel: "urgent", RiskScore: 10.0})

	report := l.RecentCases(1, "")
	if len(report.Cases) != 1 {
		t.Fatalf("cases = %d, want 1", len(report.Cases))
	}
	if report.Cases[0].Timestamp == "" {
		t.Errorf("timestamp should be filled on write")
	}
}

func TestRecentCasesCap(t *testing.T) {
	l := newTestLogger(t)
	now := time.Now()

	for i := 0; i < 110; i++ {
		l.LogCase(record("warning", 2.0, now.Add(time.Duration(i)*time.Second)))
	}

	report := l.RecentCases(1, "")
	// 统计覆盖全量，返回条目封顶 100
	if report.Statistics.TotalCases != 110 {
		t.Errorf("total = %d, want 110", report.Statistics.TotalCases)
	}
	if len(report.Cases) != 100 {
		t.Errorf("cases = %d, want 100", len(report.Cases))
	}
}
