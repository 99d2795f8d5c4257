package service

import (
	"testing"

	"MindLink/internal/modules/content/domain/entity"
	"MindLink/pkg/xerr"
)

func TestSearchQueryTooShort(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{items: testCatalog()})

	for _, q := range []string{"", " ", "压", "  压  "} {
		if _, err := svc.Search(q, 10); err == nil {
			t.Errorf("query %q should be rejected", q)
		}
	}
}

func TestSearchScoring(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{items: []entity.ContentItem{
		{Id: "a", Title: "放松练习", Description: "其他内容", Tags: []string{"其他"}},
		{Id: "b", Title: "其他内容", Description: "关于放松的说明", Tags: []string{"其他"}},
		{Id: "c", Title: "无关条目", Description: "无关", Tags: []string{"无关"}},
	}})

	results, err := svc.Search("放松", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count = %d, want 2", len(results))
	}
	// 标题命中权重高于描述命中
	if results[0].Id != "a" {
		t.Errorf("top result = %s, want a", results[0].Id)
	}
}

func TestSearchLimit(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{items: testCatalog()})
	results, err := svc.Search("压力", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) > 1 {
		t.Errorf("limit 1 returned %d results", len(results))
	}
}

func TestDetailNotFound(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{items: testCatalog()})

	_, err := svc.Detail("ghost_999")
	if err == nil {
		t.Fatalf("missing id should error")
	}
	ce, ok := err.(*xerr.CodeError)
	if !ok || ce.Code != xerr.NotFound {
		t.Errorf("expected 404 CodeError, got %v", err)
	}
}

func TestDetailIncrementsPopularity(t *testing.T) {
	repo := &fakeContentRepo{items: testCatalog()}
	svc := NewContentService(repo)

	before := repo.items[0].Popularity
	item, err := svc.Detail("article_001")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if item.Popularity != before+1 {
		t.Errorf("returned popularity = %d, want %d", item.Popularity, before+1)
	}
	if repo.items[0].Popularity != before+1 {
		t.Errorf("stored popularity = %d, want %d", repo.items[0].Popularity, before+1)
	}
}

func TestAddValidation(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{})

	if err := svc.Add(&entity.ContentItem{Title: "", Type: "article"}); err == nil {
		t.Errorf("empty title should be rejected")
	}
	if err := svc.Add(&entity.ContentItem{Title: "标题", Type: ""}); err == nil {
		t.Errorf("empty type should be rejected")
	}
}

func TestAddGeneratesID(t *testing.T) {
	repo := &fakeContentRepo{}
	svc := NewContentService(repo)

	item := &entity.ContentItem{Title: "情绪日记模板", Type: "tool", Category: "emotional_regulation"}
	if err := svc.Add(item); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.Id == "" {
		t.Fatalf("id should be generated")
	}
	if item.CreatedAt.IsZero() {
		t.Errorf("created_at should be set")
	}
	if len(repo.items) != 1 {
		t.Errorf("item not persisted")
	}
}

func TestAddDuplicateID(t *testing.T) {
	repo := &fakeContentRepo{items: testCatalog()}
	svc := NewContentService(repo)

	err := svc.Add(&entity.ContentItem{Id: "article_001", Title: "重复", Type: "article"})
	if err == nil {
		t.Errorf("duplicate id should be rejected")
	}
}

func TestStats(t *testing.T) {
	svc := NewContentService(&fakeContentRepo{items: testCatalog()})

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalCount != 3 {
		t.Errorf("total = %d, want 3", stats.TotalCount)
	}
	if stats.ByType["article"] != 1 || stats.ByType["audio"] != 1 {
		t.Errorf("by type wrong: %v", stats.ByType)
	}
	if len(stats.TopPopular) != 3 {
		t.Fatalf("top popular length = %d, want 3", len(stats.TopPopular))
	}
	// 按热度降序
	if stats.TopPopular[0].Id != "audio_001" {
		t.Errorf("most popular = %s, want audio_001", stats.TopPopular[0].Id)
	}
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	repo := &fakeContentRepo{}
	svc := NewContentService(repo)

	if err := svc.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	seeded := len(repo.items)
	if seeded == 0 {
		t.Fatalf("seed should populate empty catalog")
	}

	// 已有内容时不重复写入
	if err := svc.Seed(); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if len(repo.items) != seeded {
		t.Errorf("seed must be idempotent: %d -> %d", seeded, len(repo.items))
	}
}
