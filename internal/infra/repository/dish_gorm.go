package repository

import (
	"context"
	"errors"
	"strings"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DishGormRepository struct {
	db *gorm.DB
}

// DI
func NewDishGormRepository(db *gorm.DB) *DishGormRepository {
	return &DishGormRepository{db: db}
}

// IDで料理を取得（キャッシュしない。毎回DBの現在価格）
func (r *DishGormRepository) FindByID(ctx context.Context, id int64) (model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Dish{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Dish{}, err
	}
	return d, nil
}

func (r *DishGormRepository) ListByCategoryID(ctx context.Context, categoryID int64) ([]model.Dish, error) {
	var dishes []model.Dish
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id asc").
		Find(&dishes).Error
	if err != nil {
		return []model.Dish{}, err
	}
	return dishes, nil
}

// カテゴリ名一致（大文字小文字無視）
func (r *DishGormRepository) ListByCategoryName(ctx context.Context, name string) ([]model.Dish, error) {
	var dishes []model.Dish
	err := r.db.WithContext(ctx).
		Joins("Category").
		Where("LOWER(\"Category\".\"name\") = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("dishes.id asc").
		Find(&dishes).Error
	if err != nil {
		return []model.Dish{}, err
	}
	return dishes, nil
}

// FindByIDでカテゴリを取得
func (r *DishGormRepository) findCategory(ctx context.Context, where string, arg any) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where(where, arg).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

type CategoryGormRepository struct {
	dishes *DishGormRepository
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{dishes: NewDishGormRepository(db)}
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	return r.dishes.findCategory(ctx, "id = ?", id)
}

func (r *CategoryGormRepository) FindByName(ctx context.Context, name string) (model.Category, error) {
	return r.dishes.findCategory(ctx, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

func (r *CategoryGormRepository) Create(ctx context.Context, c *model.Category) error {
	return r.dishes.db.WithContext(ctx).Create(c).Error
}

// 名前が同じカテゴリは説明・アイコンだけ更新
func (r *DishGormRepository) UpsertCategory(ctx context.Context, c *model.Category) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "icon"}),
		}).
		Create(c).Error
	if err != nil {
		return err
	}

	//conflict時にIDが返らないDBもあるので読み直す
	stored, err := r.findCategory(ctx, "name = ?", c.Name)
	if err != nil {
		return err
	}
	c.ID = stored.ID
	return nil
}

// 同じカテゴリ・同じ名前の料理があれば価格などを更新、無ければ作成
func (r *DishGormRepository) UpsertDish(ctx context.Context, d *model.Dish) error {
	var existing model.Dish
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND name = ?", d.CategoryID, d.Name).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
	}
	if err != nil {
		return err
	}

	d.ID = existing.ID
	return r.db.WithContext(ctx).Model(&model.Dish{}).
		Where("id = ?", existing.ID).
		Select("description", "price", "image", "rating", "prep_time", "is_popular", "is_new", "available").
		Updates(d).Error
}
