package caselog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"MindLink/internal/modules/risk/domain"
	"MindLink/pkg/zlog"

	"go.uber.org/zap"
)

// CaseRecord 紧急案例日志条目，写入后不再修改
type CaseRecord struct {
	Timestamp         string   `json:"timestamp"`
	UserID            string   `json:"user_id"`
	SessionID         string   `json:"session_id"`
	UrgentLevel       string   `json:"urgent_level"`
	Triggers          []string `json:"triggers"`
	RiskScore         float64  `json:"risk_score"`
	UserInput         string   `json:"user_input"`
	Emotion           string   `json:"emotion"`
	AIResponsePreview string   `json:"ai_response_preview"`
}

// Statistics 紧急案例统计信息
type Statistics struct {
	TotalCases       int     `json:"total_cases"`
	UrgentCount      int     `json:"urgent_count"`
	WarningHighCount int     `json:"warning_high_count"`
	WarningCount     int     `json:"warning_count"`
	PeriodDays       int     `json:"period_days"`
	AvgRiskScore     float64 `json:"avg_risk_score"`
}

// CaseReport 查询结果
type CaseReport struct {
	Statistics Statistics   `json:"statistics"`
	Cases      []CaseRecord `json:"cases"`
}

// CaseLogger 紧急案例日志：按天分片的 JSON 追加日志
type CaseLogger struct {
	logDir string
	mu     sync.Mutex
	now    func() time.Time
}

func NewCaseLogger(logDir string) *CaseLogger {
	if logDir == "" {
		logDir = "logs"
	}
	_ = os.MkdirAll(logDir, 0o755)
	return &CaseLogger{logDir: logDir, now: time.Now}
}

func (l *CaseLogger) fileFor(day time.Time) string {
	return filepath.Join(l.logDir, fmt.Sprintf("urgent_cases_%s.json", day.Format("20060102")))
}

// LogCase 追加一条案例记录
//
// 写入失败只记日志不上抛：案例日志失败不能阻塞已生成的对话回复
func (l *CaseLogger) LogCase(record CaseRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if record.Timestamp == "" {
		record.Timestamp = l.now().Format(time.RFC3339)
	}

	logFile := l.fileFor(l.now())
	records, err := l.loadFile(logFile)
	if err != nil {
		zlog.Error("读取紧急案例日志失败", zap.String("file", logFile), zap.Error(err))
		records = nil
	}
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		zlog.Error("序列化紧急案例失败", zap.Error(err))
		return
	}
	if err := os.WriteFile(logFile, data, 0o644); err != nil {
		zlog.Error("记录紧急案例失败", zap.String("file", logFile), zap.Error(err))
		return
	}
	zlog.Info("紧急案例已记录", zap.String("file", logFile), zap.String("level", record.UrgentLevel))
}

func (l *CaseLogger) loadFile(logFile string) ([]CaseRecord, error) {
	data, err := os.ReadFile(logFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []CaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RecentCases 查询最近 days 天的案例，level 非空时按级别过滤
//
// 最多返回最新 100 条，时间倒序
func (l *CaseLogger) RecentCases(days int, level string) CaseReport {
	if days <= 0 {
		days = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	today := l.now()
	var cases []CaseRecord
	for i := 0; i < days; i++ {
		logFile := l.fileFor(today.AddDate(0, 0, -i))
		dayCases, err := l.loadFile(logFile)
		if err != nil {
			zlog.Error("读取紧急案例日志失败", zap.String("file", logFile), zap.Error(err))
			continue
		}
		for _, c := range dayCases {
			if level != "" && c.UrgentLevel != level {
				continue
			}
			cases = append(cases, c)
		}
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Timestamp > cases[j].Timestamp
	})

	stats := calcStatistics(cases, days)
	if len(cases) > 100 {
		cases = cases[:100]
	}
	if cases == nil {
		cases = []CaseRecord{}
	}
	return CaseReport{Statistics: stats, Cases: cases}
}

func calcStatistics(cases []CaseRecord, days int) Statistics {
	stats := Statistics{TotalCases: len(cases), PeriodDays: days}
	var sum float64
	for _, c := range cases {
		sum += c.RiskScore
		switch domain.Level(c.UrgentLevel) {
		case domain.LevelUrgent:
			stats.UrgentCount++
		case domain.LevelWarningHigh:
			stats.WarningHighCount++
		case domain.LevelWarning:
			stats.WarningCount++
		}
	}
	if len(cases) > 0 {
		stats.AvgRiskScore = sum / float64(len(cases))
	}
	return stats
}
