package persistence

import (
	"errors"

	"MindLink/internal/modules/content/domain/entity"
	"MindLink/internal/modules/content/domain/repository"

	"gorm.io/gorm"
)

type contentRepositoryImpl struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) repository.ContentRepository {
	return &contentRepositoryImpl{db: db}
}

func (r *contentRepositoryImpl) All() ([]entity.ContentItem, error) {
	var items []entity.ContentItem
	if err := r.db.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *contentRepositoryImpl) GetByID(id string) (*entity.ContentItem, error) {
	var item entity.ContentItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *contentRepositoryImpl) Create(item *entity.ContentItem) error {
	return r.db.Create(item).Error
}

func (r *contentRepositoryImpl) IncrementPopularity(id string) error {
	return r.db.Model(&entity.ContentItem{}).
		Where("id = ?", id).
		UpdateColumn("popularity", gorm.Expr("popularity + 1")).Error
}

func (r *contentRepositoryImpl) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.ContentItem{}).Count(&count).Error
	return count, err
}
