package domain

// Level 风险级别
type Level string

const (
	LevelNormal      Level = "normal"
	LevelWarning     Level = "warning"
	LevelWarningHigh Level = "warning_high"
	LevelUrgent      Level = "urgent"
)

// IsFlagged 是否需要记录紧急案例（urgent / warning_high）
func (l Level) IsFlagged() bool {
	return l == LevelUrgent || l == LevelWarningHigh
}

// Resource 求助资源
type Resource struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	URL         string `json:"url,omitempty"`
	Hours       string `json:"hours,omitempty"`
	Description string `json:"description,omitempty"`
}

// RiskVerdict 风险检测结果
type RiskVerdict struct {
	Level       Level      `json:"level"`
	Message     string     `json:"message"`
	Suggestions []string   `json:"suggestions"`
	Triggers    []string   `json:"triggers"`
	RiskScore   float64    `json:"risk_score"`
	Resources   []Resource `json:"resources,omitempty"`
}

// EmergencyResources 静态求助资源列表
func EmergencyResources() []Resource {
	return []Resource{
		{Name: "全国心理援助热线", Phone: "400-161-9995", Hours: "24小时", Description: "专业的心理援助服务"},
		{Name: "北京心理援助热线", Phone: "010-82951332", Hours: "24小时", Description: "北京市心理援助热线"},
		{Name: "简单心理", URL: "https://www.jiandanxinli.com", Description: "在线心理咨询平台"},
	}
}
