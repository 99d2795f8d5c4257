package service

import (
	"context"
	"fmt"
	"strings"

	"MindLink/internal/llm"
	"MindLink/internal/modules/dialog/domain/entity"
	riskDomain "MindLink/internal/modules/risk/domain"
	"MindLink/pkg/util"
	"MindLink/pkg/zlog"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"
)

// CrisisOutcome 危机回应结果
//
// Generated 为 false 表示有意让位给常规阶段回应，
// 与"生成失败"明确区分
type CrisisOutcome struct {
	Text      string
	Generated bool
}

// stageParams 各阶段的生成参数
type stageParams struct {
	temperature float32
	maxTokens   int
}

var stageGenParams = map[entity.Stage]stageParams{
	entity.StageInitial:   {0.75, 400},
	entity.StageExploring: {0.75, 600},
	entity.StageDeepening: {0.70, 800},
	entity.StageResolving: {0.65, 700},
}

// 不同阶段的回应策略
var strategyPrompts = map[entity.Stage]string{
	entity.StageInitial: `你刚与用户开始对话。主要目标是建立信任、表达共情，并了解核心问题。
回应重点：
1. 温暖的共情和确认
2. 开放式的探索问题
3. 简要说明你能如何帮助对方
避免：给过多建议、深入分析、过长回应`,

	entity.StageExploring: `你正在探索用户问题的阶段。主要目标是帮助用户理清思绪、识别模式。
回应重点：
1. 深度共情和理解
2. 帮助用户看到情绪/思维模式的提问
3. 适度的正常化（"很多人都会有类似感受"）
可以：适当提供简单观察或反思
避免：直接解决方案、过多工具建议`,

	entity.StageDeepening: `你正在深入处理核心问题的阶段。用户已表达足够信息。
回应重点：
1. 基于已有信息的深度分析
2. 帮助连接不同想法/感受
3. 提供有洞察力的观察
4. 可选：提供1个相关的心理工具
可以：较长回应、深度分析、适度建议
避免：跳跃到解决方案`,

	entity.StageResolving: `对话进入解决阶段。用户已充分表达，寻求具体帮助。
回应重点：
1. 总结关键洞察
2. 提供1-2个具体、可行的工具/策略
3. 鼓励小步行动
4. 展望积极变化
可以：具体建议、行动计划、工具推荐`,
}

const defaultUrgentResponse = `我听到你正在经历非常艰难的时刻，你的感受非常重要。请立即联系专业帮助：

1. 拨打心理援助热线：400-161-9995（24小时）
2. 联系学校心理咨询中心
3. 告诉信任的家人或朋友
4. 前往最近医院的急诊科

你并不孤单，请立即寻求帮助。我会在这里继续支持你。`

const defaultWarningResponse = "我能感受到你现在可能有些困扰。如果你愿意，可以多和我聊聊你的感受。寻求帮助是勇敢的表现，如果需要，我可以为你提供一些专业资源的建议。"

// ReplyService 危机感知的回应选择器
//
// 风险级别 × 对话阶段决定走危机回应还是阶段策略回应；
// 任何后端失败都以确定性兜底文案收尾，用户永远能收到回复
type ReplyService interface {
	// CrisisReply 针对风险命中的回应；normal 级别返回未生成的 outcome
	CrisisReply(ctx context.Context, userInput string, verdict riskDomain.RiskVerdict) CrisisOutcome
	// StageReply 常规阶段策略回应
	StageReply(ctx context.Context, userInput, surface, deep string, summary entity.Summary, recent []entity.Interaction) string
}

type replyServiceImpl struct {
	generator llm.Generator
}

func NewReplyService(generator llm.Generator) ReplyService {
	return &replyServiceImpl{generator: generator}
}

func (s *replyServiceImpl) CrisisReply(ctx context.Context, userInput string, verdict riskDomain.RiskVerdict) CrisisOutcome {
	switch verdict.Level {
	case riskDomain.LevelUrgent, riskDomain.LevelWarningHigh:
		return CrisisOutcome{Text: s.generateUrgentReply(ctx, userInput, verdict), Generated: true}
	case riskDomain.LevelWarning:
		text := s.generateWarningReply(ctx, userInput)
		if text == "" {
			// 让位给常规阶段回应
			return CrisisOutcome{}
		}
		return CrisisOutcome{Text: text, Generated: true}
	default:
		return CrisisOutcome{}
	}
}

// generateUrgentReply 紧急回应，失败时使用固定资源文案，绝不为空
func (s *replyServiceImpl) generateUrgentReply(ctx context.Context, userInput string, verdict riskDomain.RiskVerdict) string {
	prompt := fmt.Sprintf(`用户表达了严重困扰："%s"

检测到关键词：%s

请生成紧急回应：
1. 表达共情和理解（简短）
2. 强调寻求专业帮助的重要性
3. 提供具体可用的帮助资源
4. 鼓励立即行动
5. 保持冷静和支持性的语气

回应要求：
- 不超过150字
- 直接、明确
- 提供具体的联系方式
- 表达持续的支持

现在生成回应：`, userInput, strings.Join(verdict.Triggers, ", "))

	out, err := s.generator.Generate(ctx, "你是一位心理危机干预助手，正在处理紧急情况。", prompt,
		model.WithTemperature(0.3), model.WithMaxTokens(300))
	if err != nil || out == "" {
		if err != nil {
			zlog.Error("生成紧急回应失败", zap.Error(err))
		}
		return defaultUrgentResponse
	}
	return out
}

func (s *replyServiceImpl) generateWarningReply(ctx context.Context, userInput string) string {
	prompt := fmt.Sprintf(`用户表达了困扰："%s"

检测到可能需要关注的信号。

请生成引导性回应：
1. 表达共情和关心
2. 询问更多关于感受的细节
3. 建议寻求专业支持的选项
4. 提供持续对话的空间

回应要求：
- 温暖、支持性
- 引导但不强迫
- 提供具体建议

现在生成回应：`, userInput)

	out, err := s.generator.Generate(ctx, "你是一位细心倾听的心理支持伙伴。", prompt,
		model.WithTemperature(0.5), model.WithMaxTokens(400))
	if err != nil {
		zlog.Error("生成警告回应失败", zap.Error(err))
		return defaultWarningResponse
	}
	return out
}

func (s *replyServiceImpl) StageReply(ctx context.Context, userInput, surface, deep string, summary entity.Summary, recent []entity.Interaction) string {
	stage := summary.ConversationStage
	strategy, ok := strategyPrompts[stage]
	if !ok {
		stage = entity.StageInitial
		strategy = strategyPrompts[entity.StageInitial]
	}
	params, ok := stageGenParams[stage]
	if !ok {
		params = stageParams{0.75, 600}
	}

	systemPrompt := buildStagePrompt(stage, strategy, userInput, surface, deep, summary, recent)

	out, err := s.generator.Generate(ctx, systemPrompt, userInput,
		model.WithTemperature(params.temperature), model.WithMaxTokens(params.maxTokens))
	if err != nil || out == "" {
		if err != nil {
			zlog.Error("生成回应失败", zap.Error(err), zap.String("stage", string(stage)))
		}
		return fmt.Sprintf("我理解你现在可能感到%s。能多和我聊聊吗？", surface)
	}

	zlog.Info("回应生成成功", zap.String("stage", string(stage)), zap.Int("length", len(out)))
	return out
}

// buildStagePrompt 组装系统提示词
//
// 历史上下文只取最近3轮且每条截断到100字，约束提示词体积
func buildStagePrompt(stage entity.Stage, strategy, userInput, surface, deep string, summary entity.Summary, recent []entity.Interaction) string {
	historyText := formatHistory(recent)
	if historyText == "" {
		historyText = "这是对话的开始，还没有历史记录。"
	}

	return fmt.Sprintf(`# 角色与策略
你是一位专业的"大学生心理对话伙伴"。当前对话阶段：%s。
%s

# 用户状态
当前表达：%s
表层情绪：%s
深层情绪：%s
关键关切：%s

# 历史上下文（最近3轮）：
%s

# 回应要求
1. 保持自然对话流，不要用列表或标题
2. 根据阶段策略调整回应内容和长度
3. 深度优先于广度，质量优先于数量
4. 如果适用，可将心理知识自然融入对话中
5. 始终以用户为中心，而非展示专业知识

现在，请生成适合当前阶段的回应：`,
		stage, strategy, userInput, surface, deep,
		strings.Join(summary.KeyConcerns, ", "), historyText)
}

func formatHistory(recent []entity.Interaction) string {
	if len(recent) == 0 {
		return ""
	}
	var b strings.Builder
	for i, h := range recent {
		fmt.Fprintf(&b, "用户%d: %s...\n", i+1, util.TruncateRunes(h.UserInput, 100))
		fmt.Fprintf(&b, "助手%d: %s...\n\n", i+1, util.TruncateRunes(h.AIResponse, 100))
	}
	return b.String()
}
