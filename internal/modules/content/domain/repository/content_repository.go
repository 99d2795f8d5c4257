package repository

import "MindLink/internal/modules/content/domain/entity"

type ContentRepository interface {
	All() ([]entity.ContentItem, error)
	GetByID(id string) (*entity.ContentItem, error)
	Create(item *entity.ContentItem) error
	IncrementPopularity(id string) error
	Count() (int64, error)
}
