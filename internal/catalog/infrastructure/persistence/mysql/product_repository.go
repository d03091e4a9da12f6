package mysql

import (
	"context"

	"github.com/lootea/commerce/internal/catalog/domain"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("PriceTiers").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListAvailableByIDs(ctx context.Context, ids []uint) (map[uint]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Preload("PriceTiers", "active = ?", true).
		Where("id IN ? AND available = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *productRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("available = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("PriceTiers").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}
