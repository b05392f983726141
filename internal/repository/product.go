package repository

import (
	"context"
	"gameshop/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows a catalog listing. Flags only ever restrict.
type ProductFilter struct {
	Category  string
	Featured  bool
	Popular   bool
	BestOffer bool
}

type ProductRepository interface {
	Seed(ctx context.Context, products []model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindMany(ctx context.Context, ids []uint) ([]*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*model.Product, error)
	CategoryCounts(ctx context.Context) (map[string]int64, error)
	FilterStats(ctx context.Context) (*model.FilterStats, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context, products []model.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error

	if err != nil {
		return nil, translate(err)
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, ids []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context, filter ProductFilter) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Featured {
		q = q.Where("featured = ?", true)
	}
	if filter.Popular {
		q = q.Where("popular = ?", true)
	}
	if filter.BestOffer {
		q = q.Where("best_offer = ?", true)
	}

	var products []*model.Product
	err := q.Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

func (r *productRepoImpl) FilterStats(ctx context.Context) (*model.FilterStats, error) {
	count := func(conds ...string) (int64, error) {
		q := r.db.WithContext(ctx).Model(&model.Product{})
		for _, c := range conds {
			q = q.Where(c+" = ?", true)
		}
		var n int64
		err := q.Count(&n).Error
		return n, err
	}

	byCategory, err := r.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.FilterStats{ByCategory: byCategory}
	targets := []struct {
		dst   *int64
		conds []string
	}{
		{&stats.TotalProducts, nil},
		{&stats.FeaturedCount, []string{"featured"}},
		{&stats.PopularCount, []string{"popular"}},
		{&stats.BestOfferCount, []string{"best_offer"}},
		{&stats.Combinations.FeaturedPopular, []string{"featured", "popular"}},
		{&stats.Combinations.FeaturedBestOffer, []string{"featured", "best_offer"}},
		{&stats.Combinations.PopularBestOffer, []string{"popular", "best_offer"}},
		{&stats.Combinations.AllThree, []string{"featured", "popular", "best_offer"}},
	}
	for _, t := range targets {
		n, err := count(t.conds...)
		if err != nil {
			return nil, err
		}
		*t.dst = n
	}

	return stats, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).Select("*").Omit("created_at").Save(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepoImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
