package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shop_cart/services/catalog/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.Product{}, &models.Stock{})
}

func (r *GormRepo) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := r.DB.WithContext(ctx).Model(&models.Product{}).Order("id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}

	items := []models.Product{}
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetStock(ctx context.Context, id int) (*models.Stock, error) {
	stock := models.Stock{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// Seed upserts products and stock rows in one transaction.
func (r *GormRepo) Seed(ctx context.Context, products []models.Product, stock []models.Stock) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(products) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "price", "image"}),
			}).Create(&products).Error; err != nil {
				return err
			}
		}
		if len(stock) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"amount"}),
			}).Create(&stock).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
