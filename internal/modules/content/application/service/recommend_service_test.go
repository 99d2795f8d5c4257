package service

import (
	"context"
	"errors"
	"testing"

	"MindLink/internal/modules/content/domain/entity"
	dialogEntity "MindLink/internal/modules/dialog/domain/entity"

	"github.com/cloudwego/eino/components/model"
)

type fakeContentRepo struct {
	items  []entity.ContentItem
	allErr error
}

func (f *fakeContentRepo) All() ([]entity.ContentItem, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	out := make([]entity.ContentItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeContentRepo) GetByID(id string) (*entity.ContentItem, error) {
	for i := range f.items {
		if f.items[i].Id == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (f *fakeContentRepo) Create(item *entity.ContentItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeContentRepo) IncrementPopularity(id string) error {
	for i := range f.items {
		if f.items[i].Id == id {
			f.items[i].Popularity++
			return nil
		}
	}
	return nil
}

func (f *fakeContentRepo) Count() (int64, error) {
	return int64(len(f.items)), nil
}

type fakeGen struct {
	fn func(system, user string) (string, error)
}

func (f *fakeGen) Generate(ctx context.Context, system, user string, opts ...model.Option) (string, error) {
	return f.fn(system, user)
}

func testCatalog() []entity.ContentItem {
	return []entity.ContentItem{
		{
			Id: "article_001", Title: "学业压力调适指南", Type: "article",
			Category: "stress_management", Difficulty: "beginner",
			Tags: []string{"academic", "压力"}, EmotionTags: []string{"压力", "学业压力"},
			Popularity: 10,
		},
		{
			Id: "audio_001", Title: "考前放松冥想", Type: "audio",
			Category: "relaxation", Difficulty: "beginner",
			Tags: []string{"冥想", "放松"}, EmotionTags: []string{"焦虑"},
			Popularity: 30,
		},
		{
			Id: "tool_001", Title: "人际沟通练习", Type: "tool",
			Category: "relationship", Difficulty: "intermediate",
			Tags: []string{"relationship", "沟通"}, EmotionTags: []string{"人际矛盾", "孤独"},
			Popularity: 5,
		},
	}
}

func TestRecommendEmotionMatchWins(t *testing.T) {
	svc := NewRecommendService(&fakeContentRepo{items: testCatalog()}, nil)

	summary := dialogEntity.DefaultSummary()
	items, rationale, scores := svc.Recommend(context.Background(), "我没什么特别的", "焦虑", summary, 2)

	if len(items) == 0 {
		t.Fatalf("expected recommendations")
	}
	if items[0].Id != "audio_001" {
		t.Errorf("top item = %s, want audio_001 (情绪精确匹配)", items[0].Id)
	}
	if rationale == "" {
		t.Errorf("rationale must not be empty")
	}
	if _, ok := scores["audio_001"]; !ok {
		t.Errorf("match scores should cover returned items")
	}
}

func TestRecommendOrderIndependence(t *testing.T) {
	catalog := testCatalog()
	reversed := []entity.ContentItem{catalog[2], catalog[1], catalog[0]}

	svcA := NewRecommendService(&fakeContentRepo{items: catalog}, nil)
	svcB := NewRecommendService(&fakeContentRepo{items: reversed}, nil)

	summary := dialogEntity.DefaultSummary()
	summary.KeyConcerns = []string{"academic"}

	a, _, _ := svcA.Recommend(context.Background(), "考试压力好大", "压力", summary, 3)
	b, _, _ := svcB.Recommend(context.Background(), "考试压力好大", "压力", summary, 3)

	if len(a) != len(b) {
		t.Fatalf("result sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Id != b[i].Id {
			t.Errorf("catalog order changed results at %d: %s vs %s", i, a[i].Id, b[i].Id)
		}
	}
}

func TestRecommendLimit(t *testing.T) {
	svc := NewRecommendService(&fakeContentRepo{items: testCatalog()}, nil)

	summary := dialogEntity.DefaultSummary()
	items, _, _ := svc.Recommend(context.Background(), "压力 放松 沟通 冥想", "压力", summary, 1)
	if len(items) > 1 {
		t.Errorf("limit 1 returned %d items", len(items))
	}

	// limit<=0 使用默认值
	items, _, _ = svc.Recommend(context.Background(), "压力", "压力", summary, 0)
	if len(items) > 3 {
		t.Errorf("default limit should cap at 3, got %d", len(items))
	}
}

func TestRecommendRepoFailureDegrades(t *testing.T) {
	svc := NewRecommendService(&fakeContentRepo{allErr: errors.New("db down")}, nil)

	items, rationale, scores := svc.Recommend(context.Background(), "压力好大", "压力", dialogEntity.DefaultSummary(), 2)
	if items == nil || len(items) != 0 {
		t.Errorf("repo failure should yield empty non-nil result")
	}
	if rationale != "" {
		t.Errorf("rationale should be empty on failure")
	}
	if scores == nil {
		t.Errorf("scores should be empty non-nil map")
	}
}

func TestAIRecommendationValidatesIDs(t *testing.T) {
	gen := &fakeGen{fn: func(system, user string) (string, error) {
		// 一个真实 ID，一个编造 ID
		return `["audio_001", "ghost_999"]`, nil
	}}
	svc := NewRecommendService(&fakeContentRepo{items: testCatalog()}, gen)

	items, _, _ := svc.Recommend(context.Background(), "嗯", "其他", dialogEntity.Summary{ConversationStage: dialogEntity.Stage("x")}, 3)

	for _, item := range items {
		if item.Id == "ghost_999" {
			t.Fatalf("fabricated ID must be dropped")
		}
	}
	found := false
	for _, item := range items {
		if item.Id == "audio_001" {
			found = true
		}
	}
	if !found {
		t.Errorf("valid AI-suggested ID should survive, got %v", items)
	}
}

func TestAIRecommendationErrorIgnored(t *testing.T) {
	gen := &fakeGen{fn: func(system, user string) (string, error) {
		return "", errors.New("backend down")
	}}
	svc := NewRecommendService(&fakeContentRepo{items: testCatalog()}, gen)

	summary := dialogEntity.DefaultSummary()
	items, _, _ := svc.Recommend(context.Background(), "考试压力好大", "压力", summary, 2)
	// 模型通道失败不影响规则通道结果
	if len(items) == 0 {
		t.Errorf("rule-based channel should still produce results")
	}
}

func TestExtractKeywords(t *testing.T) {
	keywords := extractKeywords("最近考试压力好大，晚上睡眠也不好")
	if len(keywords) == 0 {
		t.Fatalf("expected keywords")
	}
	seen := make(map[string]bool)
	for _, k := range keywords {
		if seen[k] {
			t.Errorf("duplicate keyword %s", k)
		}
		seen[k] = true
	}
	if !seen["压力"] {
		t.Errorf("psych keyword 压力 should be extracted, got %v", keywords)
	}
}

func TestCalculateMatchScoresCap(t *testing.T) {
	items := []entity.ContentItem{{
		Id: "hot_001", Title: "x", Category: "academic",
		Difficulty: "beginner", Tags: []string{"academic"},
		EmotionTags: []string{"压力"}, Popularity: 1000,
	}}
	summary := dialogEntity.DefaultSummary()
	summary.KeyConcerns = []string{"academic"}

	scores := calculateMatchScores(items, "压力", summary)
	if scores["hot_001"] > 1.0 {
		t.Errorf("match score must cap at 1.0, got %f", scores["hot_001"])
	}
}
