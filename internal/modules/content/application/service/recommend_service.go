package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"MindLink/internal/llm"
	"MindLink/internal/modules/content/domain/entity"
	"MindLink/internal/modules/content/domain/repository"
	dialogEntity "MindLink/internal/modules/dialog/domain/entity"
	"MindLink/pkg/zlog"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"
)

// 情绪到内容分类的映射权重
var emotionCategoryWeights = map[string][]string{
	"学业压力": {"academic", "stress_management"},
	"焦虑":   {"relaxation", "mindfulness", "anxiety"},
	"抑郁":   {"self_reflection", "mood_management"},
	"愤怒":   {"anger_management", "emotional_regulation"},
	"压力":   {"stress_management", "relaxation"},
	"人际矛盾": {"relationship", "communication"},
	"困惑":   {"self_reflection", "decision_making"},
	"不确定":  {"future", "decision_making"},
	"未来迷茫": {"future", "career_planning"},
	"自我怀疑": {"self_esteem", "self_reflection"},
	"孤独":   {"relationship", "social_skills"},
	"失眠":   {"sleep", "relaxation"},
}

// 对话阶段到内容难度的映射
var stageDifficulty = map[dialogEntity.Stage][]string{
	dialogEntity.StageInitial:   {"beginner"},
	dialogEntity.StageExploring: {"beginner"},
	dialogEntity.StageDeepening: {"intermediate"},
	dialogEntity.StageResolving: {"intermediate", "advanced"},
}

// 心理相关关键词增强
var psychKeywords = []string{
	"压力", "焦虑", "抑郁", "情绪", "学习", "考试", "工作",
	"关系", "朋友", "家人", "未来", "迷茫", "自我", "自信",
	"睡眠", "饮食", "运动", "放松", "冥想", "正念",
}

var chineseWordPattern = regexp.MustCompile(`[\p{Han}]{2,}`)

var rationaleTemplates = map[dialogEntity.Stage]string{
	dialogEntity.StageInitial:   "根据你提到的内容，这些资源可能对你有帮助：",
	dialogEntity.StageExploring: "在探索阶段，这些内容可以帮助你更深入地理解自己：",
	dialogEntity.StageDeepening: "这些专业资源可以帮助你进一步分析问题：",
	dialogEntity.StageResolving: "这些实用工具和策略可以帮助你采取行动：",
}

// RecommendService 个性化内容推荐引擎
//
// 规则打分为主，可选的模型辅助选取为辅；推荐失败降级为空结果，
// 不允许影响对话主流程
type RecommendService interface {
	Recommend(ctx context.Context, userInput, currentEmotion string, summary dialogEntity.Summary, limit int) ([]entity.ContentItem, string, map[string]float64)
}

type recommendServiceImpl struct {
	repo      repository.ContentRepository
	generator llm.Generator
}

// NewRecommendService generator 传 nil 时禁用模型辅助推荐
func NewRecommendService(repo repository.ContentRepository, generator llm.Generator) RecommendService {
	return &recommendServiceImpl{repo: repo, generator: generator}
}

func (s *recommendServiceImpl) Recommend(ctx context.Context, userInput, currentEmotion string, summary dialogEntity.Summary, limit int) ([]entity.ContentItem, string, map[string]float64) {
	if limit <= 0 {
		limit = 3
	}

	items, err := s.repo.All()
	if err != nil {
		zlog.Error("内容推荐失败", zap.Error(err))
		return []entity.ContentItem{}, "", map[string]float64{}
	}

	ruleBased := ruleBasedRecommendation(items, userInput, currentEmotion, summary, limit)
	aiBased := s.aiBasedRecommendation(ctx, items, userInput, currentEmotion, summary, limit)

	// 合并去重，规则结果优先
	seen := make(map[string]bool)
	merged := make([]entity.ContentItem, 0, limit)
	for _, item := range append(ruleBased, aiBased...) {
		if seen[item.Id] {
			continue
		}
		seen[item.Id] = true
		merged = append(merged, item)
		if len(merged) >= limit {
			break
		}
	}

	rationale := generateRationale(merged, currentEmotion, summary)
	matchScores := calculateMatchScores(merged, currentEmotion, summary)
	return merged, rationale, matchScores
}

// ruleBasedRecommendation 基于规则的打分推荐
//
// 打分只依赖条目自身属性，与遍历顺序无关
func ruleBasedRecommendation(items []entity.ContentItem, userInput, currentEmotion string, summary dialogEntity.Summary, limit int) []entity.ContentItem {
	keywords := extractKeywords(userInput)
	difficulties := stageDifficulty[summary.ConversationStage]

	type scored struct {
		score float64
		item  entity.ContentItem
	}
	scoredItems := make([]scored, 0)

	for _, item := range items {
		score := 0.0

		// 1. 情绪匹配（权重最高）
		for _, tag := range item.EmotionTags {
			if tag == currentEmotion {
				score += 3.0
				break
			}
		}
		for _, tag := range item.EmotionTags {
			for _, category := range emotionCategoryWeights[tag] {
				if category == currentEmotion {
					score += 2.0
				}
			}
		}

		// 2. 关键词匹配
		titleLower := strings.ToLower(item.Title)
		tagsLower := strings.ToLower(strings.Join(item.Tags, " "))
		for _, keyword := range keywords {
			if strings.Contains(titleLower, keyword) || strings.Contains(tagsLower, keyword) {
				score += 2.0
			}
		}

		// 3. 关切点匹配
		for _, concern := range summary.KeyConcerns {
			if containsString(item.Tags, concern) || strings.Contains(item.Category, concern) {
				score += 1.5
			}
		}

		// 4. 难度适配
		if containsString(difficulties, item.Difficulty) {
			score += 1.0
		}

		// 5. 热度加权
		score += float64(item.Popularity) * 0.01

		if score > 0 {
			scoredItems = append(scoredItems, scored{score, item})
		}
	}

	sort.SliceStable(scoredItems, func(i, j int) bool {
		if scoredItems[i].score != scoredItems[j].score {
			return scoredItems[i].score > scoredItems[j].score
		}
		return scoredItems[i].item.Id < scoredItems[j].item.Id
	})
	if len(scoredItems) > limit {
		scoredItems = scoredItems[:limit]
	}
	out := make([]entity.ContentItem, 0, len(scoredItems))
	for _, s := range scoredItems {
		out = append(out, s.item)
	}
	return out
}

// aiBasedRecommendation 模型辅助推荐，返回的 ID 经过真实内容库校验
func (s *recommendServiceImpl) aiBasedRecommendation(ctx context.Context, items []entity.ContentItem, userInput, currentEmotion string, summary dialogEntity.Summary, limit int) []entity.ContentItem {
	if s.generator == nil || len(items) == 0 {
		return nil
	}

	descriptions := make([]string, 0, len(items))
	for i, item := range items {
		if i >= 20 { // 限制数量避免 token 过多
			break
		}
		descriptions = append(descriptions, fmt.Sprintf("ID: %s | 标题: %s | 类型: %s | 描述: %s | 标签: %s",
			item.Id, item.Title, item.Type, item.Description, strings.Join(item.Tags, ", ")))
	}

	systemPrompt := `你是一个心理内容推荐专家。请根据用户的情况，从以下内容库中选择最合适的3个推荐。
考虑因素：
1. 用户的当前情绪状态
2. 用户的表达内容
3. 对话阶段和深度
4. 内容的匹配度和实用性

请返回内容ID列表，格式:["id1", "id2", "id3"]`

	userPrompt := fmt.Sprintf(`用户输入: %s
当前情绪: %s
对话阶段: %s
关切点: %s

可用内容:
%s

请推荐最合适的3个内容ID:`,
		userInput, currentEmotion, summary.ConversationStage,
		strings.Join(summary.KeyConcerns, ", "), strings.Join(descriptions, "\n"))

	out, err := s.generator.Generate(ctx, systemPrompt, userPrompt,
		model.WithTemperature(0.3), model.WithMaxTokens(100))
	if err != nil {
		zlog.Error("模型推荐失败", zap.Error(err))
		return nil
	}

	byID := make(map[string]entity.ContentItem, len(items))
	for _, item := range items {
		byID[item.Id] = item
	}

	idPattern := regexp.MustCompile(`["']([a-zA-Z0-9_]+)["']`)
	matches := idPattern.FindAllStringSubmatch(out, -1)

	result := make([]entity.ContentItem, 0, limit)
	for _, m := range matches {
		if len(result) >= limit {
			break
		}
		// 未知 ID 静默丢弃
		if item, ok := byID[m[1]]; ok {
			result = append(result, item)
		}
	}
	return result
}

// extractKeywords 简单的中文关键词提取
func extractKeywords(text string) []string {
	words := chineseWordPattern.FindAllString(text, -1)

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			keywords = append(keywords, w)
		}
	}
	for _, kw := range psychKeywords {
		if strings.Contains(text, kw) && !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func generateRationale(items []entity.ContentItem, currentEmotion string, summary dialogEntity.Summary) string {
	if len(items) == 0 {
		return "暂时没有找到特别匹配的内容。"
	}

	base, ok := rationaleTemplates[summary.ConversationStage]
	if !ok {
		base = "根据你的情况推荐以下内容："
	}

	reasons := make([]string, 0, 2)
	for i, item := range items {
		if i >= 2 { // 只取前两个详细说明
			break
		}
		if containsString(item.EmotionTags, currentEmotion) {
			reasons = append(reasons, fmt.Sprintf("《%s》特别适合处理%s状态", item.Title, currentEmotion))
		} else if anyOverlap(item.Tags, summary.KeyConcerns) {
			reasons = append(reasons, fmt.Sprintf("《%s》与你关注的方面相关", item.Title))
		}
	}
	if len(reasons) > 0 {
		return base + " " + strings.Join(reasons, "；")
	}
	return base
}

func calculateMatchScores(items []entity.ContentItem, currentEmotion string, summary dialogEntity.Summary) map[string]float64 {
	scores := make(map[string]float64, len(items))
	difficulties := stageDifficulty[summary.ConversationStage]

	for _, item := range items {
		score := 0.0
		if containsString(item.EmotionTags, currentEmotion) {
			score += 0.4
		}
		for _, concern := range summary.KeyConcerns {
			if containsString(item.Tags, concern) || strings.Contains(item.Category, concern) {
				score += 0.3
				break
			}
		}
		if containsString(difficulties, item.Difficulty) {
			score += 0.2
		}
		pop := float64(item.Popularity) * 0.01
		if pop > 0.1 {
			pop = 0.1
		}
		score += pop
		if score > 1.0 {
			score = 1.0
		}
		scores[item.Id] = score
	}
	return scores
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

func anyOverlap(a, b []string) bool {
	for _, x := range a {
		if containsString(b, x) {
			return true
		}
	}
	return false
}
