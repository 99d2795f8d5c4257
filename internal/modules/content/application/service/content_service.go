package service

import (
	"sort"
	"strings"
	"time"

	"MindLink/internal/modules/content/domain/entity"
	"MindLink/internal/modules/content/domain/repository"
	"MindLink/pkg/util"
	"MindLink/pkg/xerr"
	"MindLink/pkg/zlog"

	"go.uber.org/zap"
)

// ContentStats 内容库统计
type ContentStats struct {
	TotalCount int            `json:"total_count"`
	ByType     map[string]int `json:"by_type"`
	ByCategory map[string]int `json:"by_category"`
	TopPopular []PopularItem  `json:"top_popular"`
}

type PopularItem struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	Popularity int    `json:"popularity"`
}

// ContentService 内容库管理
type ContentService interface {
	Search(query string, limit int) ([]entity.ContentItem, error)
	// Detail 获取内容详情并增加热度
	Detail(id string) (*entity.ContentItem, error)
	Add(item *entity.ContentItem) error
	Stats() (*ContentStats, error)
	Count() int64
	// Seed 内容库为空时写入示例内容
	Seed() error
}

type contentServiceImpl struct {
	repo repository.ContentRepository
}

func NewContentService(repo repository.ContentRepository) ContentService {
	return &contentServiceImpl{repo: repo}
}

func (s *contentServiceImpl) Search(query string, limit int) ([]entity.ContentItem, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, xerr.New(xerr.BadRequest, "搜索关键词太短")
	}
	if limit <= 0 {
		limit = 10
	}

	items, err := s.repo.All()
	if err != nil {
		zlog.Error("读取内容库失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	queryLower := strings.ToLower(query)
	type scored struct {
		score int
		item  entity.ContentItem
	}
	results := make([]scored, 0)
	for _, item := range items {
		score := 0
		if strings.Contains(strings.ToLower(item.Title), queryLower) {
			score += 3
		}
		if strings.Contains(strings.ToLower(item.Description), queryLower) {
			score += 2
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), queryLower) {
				score++
			}
		}
		if score > 0 {
			results = append(results, scored{score, item})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]entity.ContentItem, 0, len(results))
	for _, r := range results {
		out = append(out, r.item)
	}
	return out, nil
}

func (s *contentServiceImpl) Detail(id string) (*entity.ContentItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		zlog.Error("读取内容失败", zap.Error(err), zap.String("id", id))
		return nil, xerr.ErrServerError
	}
	if item == nil {
		return nil, xerr.New(xerr.NotFound, "内容不存在")
	}

	// 热度自增失败不影响详情返回
	if err := s.repo.IncrementPopularity(id); err != nil {
		zlog.Error("热度更新失败", zap.Error(err), zap.String("id", id))
	} else {
		item.Popularity++
	}
	return item, nil
}

func (s *contentServiceImpl) Add(item *entity.ContentItem) error {
	if item == nil || strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Type) == "" {
		return xerr.New(xerr.BadRequest, "内容标题和类型不能为空")
	}
	if strings.TrimSpace(item.Id) == "" {
		item.Id = item.Type + "_" + util.GenerateShortUUID()[:12]
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if existing, err := s.repo.GetByID(item.Id); err == nil && existing != nil {
		return xerr.New(xerr.BadRequest, "内容ID已存在")
	}
	if err := s.repo.Create(item); err != nil {
		zlog.Error("添加内容失败", zap.Error(err))
		return xerr.ErrServerError
	}
	zlog.Info("已添加内容", zap.String("id", item.Id), zap.String("title", item.Title))
	return nil
}

func (s *contentServiceImpl) Stats() (*ContentStats, error) {
	items, err := s.repo.All()
	if err != nil {
		zlog.Error("读取内容库失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	stats := &ContentStats{
		TotalCount: len(items),
		ByType:     make(map[string]int),
		ByCategory: make(map[string]int),
		TopPopular: []PopularItem{},
	}
	for _, item := range items {
		stats.ByType[item.Type]++
		stats.ByCategory[item.Category]++
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Popularity > items[j].Popularity })
	for i, item := range items {
		if i >= 10 {
			break
		}
		stats.TopPopular = append(stats.TopPopular, PopularItem{
			Id:         item.Id,
			Title:      item.Title,
			Popularity: item.Popularity,
		})
	}
	return stats, nil
}

func (s *contentServiceImpl) Count() int64 {
	count, err := s.repo.Count()
	if err != nil {
		return 0
	}
	return count
}

func (s *contentServiceImpl) Seed() error {
	count, err := s.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range seedContent {
		item := seedContent[i]
		item.CreatedAt = time.Now()
		if err := s.repo.Create(&item); err != nil {
			return err
		}
	}
	zlog.Info("已初始化示例内容库", zap.Int("count", len(seedContent)))
	return nil
}

// seedContent 初始示例内容
var seedContent = []entity.ContentItem{
	{
		Id: "article_001", Title: "如何应对学业压力：5个实用策略", Type: "article", Category: "academic",
		Description: "针对大学生常见的学业压力问题，提供具体的应对策略和心理调适方法。",
		URL:         "/articles/academic_stress_management.html",
		Tags:        []string{"学业压力", "时间管理", "考试焦虑", "学习方法"},
		EmotionTags: []string{"学业压力", "焦虑", "压力", "困惑"},
		Difficulty:  "beginner",
	},
	{
		Id: "audio_001", Title: "10分钟放松冥想引导", Type: "audio", Category: "relaxation",
		Description: "专门为缓解焦虑设计的冥想音频，适合睡前或压力大时聆听。",
		URL:         "/audios/10min_relaxation.mp3", DurationMinutes: 10,
		Tags:        []string{"冥想", "放松", "焦虑缓解", "睡眠"},
		EmotionTags: []string{"焦虑", "压力", "失眠", "紧张"},
		Difficulty:  "beginner",
	},
	{
		Id: "exercise_001", Title: "情绪日记练习", Type: "exercise", Category: "self_reflection",
		Description: "通过记录情绪日记，提高情绪觉察能力，了解自己的情绪模式。",
		Tags:        []string{"情绪觉察", "日记", "自我反思", "情绪管理"},
		EmotionTags: []string{"困惑", "不确定", "情绪压抑", "自我怀疑"},
		Difficulty:  "beginner",
	},
	{
		Id: "article_002", Title: "改善人际关系的沟通技巧", Type: "article", Category: "relationship",
		Description: "学习有效的沟通方法，改善与朋友、家人和恋人的关系。",
		URL:         "/articles/communication_skills.html",
		Tags:        []string{"人际关系", "沟通", "冲突解决", "社交技巧"},
		EmotionTags: []string{"人际矛盾", "孤独", "被误解", "社交焦虑"},
		Difficulty:  "intermediate",
	},
	{
		Id: "audio_002", Title: "正念呼吸练习", Type: "audio", Category: "mindfulness",
		Description: "简短的正念呼吸练习，帮助你在紧张时刻快速平静下来。",
		URL:         "/audios/mindful_breathing.mp3", DurationMinutes: 5,
		Tags:        []string{"正念", "呼吸", "专注", "当下"},
		EmotionTags: []string{"焦虑", "压力", "注意力分散", "过度思考"},
		Difficulty:  "beginner",
	},
	{
		Id: "tool_001", Title: "认知重构工作表", Type: "tool", Category: "cognitive_restructuring",
		Description: "识别并挑战负面思维模式，建立更健康的思考方式。",
		URL:         "/tools/cognitive_restructuring.pdf",
		Tags:        []string{"认知行为疗法", "思维模式", "自动思维", "心理工具"},
		EmotionTags: []string{"焦虑", "抑郁", "自我怀疑", "负面思维"},
		Difficulty:  "intermediate",
	},
	{
		Id: "article_003", Title: "未来规划：如何应对职业迷茫", Type: "article", Category: "future",
		Description: "针对大学生常见的职业迷茫问题，提供实用的规划方法和心态调整建议。",
		URL:         "/articles/career_confusion.html",
		Tags:        []string{"职业规划", "未来迷茫", "就业焦虑", "自我探索"},
		EmotionTags: []string{"未来迷茫", "不确定", "焦虑", "压力"},
		Difficulty:  "intermediate",
	},
	{
		Id: "audio_003", Title: "改善睡眠的渐进式肌肉放松", Type: "audio", Category: "sleep",
		Description: "针对失眠问题的肌肉放松训练，帮助你更容易入睡。",
		URL:         "/audios/progressive_relaxation.mp3", DurationMinutes: 15,
		Tags:        []string{"睡眠", "放松", "失眠", "身体扫描"},
		EmotionTags: []string{"失眠", "焦虑", "压力", "身体紧张"},
		Difficulty:  "beginner",
	},
}
