package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"MindLink/internal/llm"
	"MindLink/internal/modules/dialog/domain/entity"
	"MindLink/pkg/zlog"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"
)

const neutralEmotion = "中性"

// EmotionService 情绪分析器
//
// 情绪信号是建议性的而非安全关键路径（风险检测独立于此在本地完成），
// 因此后端失败时返回中性兜底值，从不向外层抛错
type EmotionService interface {
	// Analyze 返回 (表层情绪, 深层情绪, 置信度)
	Analyze(ctx context.Context, text string, summary entity.Summary) (string, string, float64)
}

type emotionServiceImpl struct {
	generator llm.Generator
}

func NewEmotionService(generator llm.Generator) EmotionService {
	return &emotionServiceImpl{generator: generator}
}

func (s *emotionServiceImpl) Analyze(ctx context.Context, text string, summary entity.Summary) (string, string, float64) {
	surface, err := s.analyzeSurfaceEmotion(ctx, text)
	if err != nil {
		zlog.Error("情绪分析失败", zap.Error(err))
		return neutralEmotion, neutralEmotion, 0.5
	}

	deep := surface
	// 新会话没有上下文，跳过深层分析
	if summary.TurnCount > 0 {
		deep = s.analyzeDeepEmotion(ctx, text, surface, summary)
	}

	confidence := calculateConfidence(text, surface)

	zlog.Info("情绪分析",
		zap.String("surface", surface),
		zap.String("deep", deep),
		zap.Float64("confidence", confidence))
	return surface, deep, confidence
}

func (s *emotionServiceImpl) analyzeSurfaceEmotion(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`分析以下文本的主要情绪（从选项中选择最贴切的）：
选项：学业压力、焦虑、抑郁、愤怒、压力、人际矛盾、困惑、不确定、中性、快乐、平静、放松、其他

文本："%s"
情绪标签：`, text)

	out, err := s.generator.Generate(ctx, "只返回情绪标签", prompt,
		model.WithTemperature(0.1), model.WithMaxTokens(10))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return neutralEmotion, nil
	}
	return out, nil
}

// analyzeDeepEmotion 基于上下文分析深层情绪，失败或解析不到标记时回落到表层情绪
func (s *emotionServiceImpl) analyzeDeepEmotion(ctx context.Context, text, surface string, summary entity.Summary) string {
	prompt := fmt.Sprintf(`你是一位专业的心理咨询师，正在分析一位用户的情绪状态。

用户当前输入："%s"
当前检测到的表层情绪是：%s

对话上下文信息：
- 对话阶段：%s
- 主要关切点：%s
- 近期情绪变化：%s

请分析用户的深层情绪。深层情绪可能是用户没有直接表达，但隐藏在话语背后的情绪。
深层情绪类型：
1. 表层情绪（就是当前表达的情绪）
2. 深层焦虑（表面情绪下隐藏的焦虑）
3. 关系困扰（与人际关系相关的深层困扰）
4. 自我怀疑（对自身能力或价值的怀疑）
5. 未来迷茫（对未来的不确定和迷茫）
6. 学业压力（与学业相关的深层压力）
7. 情绪压抑（未能表达的负面情绪积压）
8. 家庭压力（来自家庭的压力）
9. 社交恐惧（对社交场合的恐惧）

请以以下格式回答：
深层情绪：[你的选择]
解释：[简要解释]`,
		text, surface,
		summary.ConversationStage,
		strings.Join(summary.KeyConcerns, ", "),
		strings.Join(summary.RecentEmotions, ", "))

	out, err := s.generator.Generate(ctx, "", prompt,
		model.WithTemperature(0.3), model.WithMaxTokens(100))
	if err != nil {
		zlog.Error("深层情绪分析失败", zap.Error(err))
		return surface
	}
	return parseDeepEmotion(out, surface)
}

// parseDeepEmotion 定位"深层情绪："标记行，缺失时回落到表层情绪
func parseDeepEmotion(result, surface string) string {
	const marker = "深层情绪："
	if !strings.Contains(result, marker) {
		return surface
	}
	for _, line := range strings.Split(result, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, marker) {
			deep := strings.TrimSpace(strings.TrimPrefix(line, marker))
			if deep != "" {
				return deep
			}
			return surface
		}
	}
	return surface
}

// calculateConfidence 启发式置信度，与模型输出无关
func calculateConfidence(text, emotion string) float64 {
	confidence := 0.85

	length := utf8.RuneCountInString(text)
	if length < 10 {
		confidence -= 0.2
	} else if length > 100 {
		confidence += 0.1
	}

	if emotion == neutralEmotion {
		confidence -= 0.1
	}

	if confidence < 0.5 {
		confidence = 0.5
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
