package service

import (
	"strings"

	"MindLink/internal/modules/risk/domain"
)

// 紧急关键词 - 需要立即干预
var urgentKeywords = []string{
	"自杀", "不想活了", "结束生命", "绝望", "活够了",
	"想死", "死掉", "离开世界", "生命没意义", "自我了断",
	"跳楼", "割腕", "服毒", "上吊", "烧炭", "安乐死",
}

// 警告关键词 - 需要密切关注
var warningKeywords = []string{
	"活不下去", "没意思", "太痛苦", "撑不住", "崩溃",
	"想消失", "人间不值得", "好累", "绝望", "无助",
	"没人理解", "孤独", "被抛弃", "没有希望", "想放弃",
}

// 情绪增强因子
var emotionEnhancers = map[string]float64{
	"抑郁": 2.0,
	"焦虑": 1.5,
	"愤怒": 1.2,
	"压力": 1.3,
}

// RiskDetector 紧急情况检测器
//
// 纯本地关键词匹配，不做任何 I/O，必须在生成后端调用之前运行。
// 子串匹配不做分词和否定识别（如"不想死"含"想死"），属于已知的
// 召回优先权衡，保持与原有词表语义一致。
type RiskDetector struct{}

func NewRiskDetector() *RiskDetector {
	return &RiskDetector{}
}

// Detect 检测用户输入中的紧急情况
//
// 判定优先级：紧急关键词 > 警告关键词 > 正常。
// 任一紧急词命中即无条件 urgent，情绪和警告词命中不再参与。
func (d *RiskDetector) Detect(text string, emotion string) domain.RiskVerdict {
	textLower := strings.ToLower(text)

	foundUrgent := findKeywords(textLower, urgentKeywords)
	foundWarning := findKeywords(textLower, warningKeywords)

	if len(foundUrgent) > 0 {
		return urgentVerdict(foundUrgent)
	}
	if len(foundWarning) > 0 {
		return warningVerdict(foundWarning, emotion)
	}
	return normalVerdict()
}

func findKeywords(text string, keywords []string) []string {
	found := make([]string, 0)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

func urgentVerdict(triggers []string) domain.RiskVerdict {
	return domain.RiskVerdict{
		Level:   domain.LevelUrgent,
		Message: "检测到紧急情况，请立即寻求专业帮助！",
		Suggestions: []string{
			"立即拨打心理援助热线（如：400-161-9995）",
			"联系学校心理咨询中心",
			"告诉信任的家人或朋友",
			"前往最近医院的急诊科",
		},
		Triggers:  triggers,
		RiskScore: 10.0,
		Resources: domain.EmergencyResources(),
	}
}

func warningVerdict(triggers []string, emotion string) domain.RiskVerdict {
	severity := float64(len(triggers))
	if factor, ok := emotionEnhancers[emotion]; ok {
		severity *= factor
	}

	// 10.0 专属于紧急关键词路径，警告路径封顶 9.9
	riskScore := severity * 2.0
	if riskScore > 9.9 {
		riskScore = 9.9
	}

	if severity >= 3 {
		return domain.RiskVerdict{
			Level:   domain.LevelWarningHigh,
			Message: "检测到较高风险，建议尽快寻求帮助",
			Suggestions: []string{
				"建议联系学校心理咨询师",
				"可以拨打心理援助热线",
				"与信任的人谈谈你的感受",
				"尝试一些放松技巧（深呼吸、冥想）",
			},
			Triggers:  triggers,
			RiskScore: riskScore,
		}
	}
	return domain.RiskVerdict{
		Level:   domain.LevelWarning,
		Message: "检测到潜在风险，需要关注",
		Suggestions: []string{
			"建议寻求专业支持",
			"可以联系信任的人谈谈",
			"尝试记录情绪日记",
		},
		Triggers:  triggers,
		RiskScore: riskScore,
	}
}

func normalVerdict() domain.RiskVerdict {
	return domain.RiskVerdict{
		Level:       domain.LevelNormal,
		Message:     "",
		Suggestions: []string{},
		Triggers:    []string{},
		RiskScore:   0.0,
	}
}
