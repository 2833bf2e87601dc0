package repository

import (
	"context"

	"darkitchen/internal/domain/model"
)

// メニュー（料理・カテゴリ）の参照
type DishRepository interface {
	FindByID(ctx context.Context, dishID int64) (model.Dish, error)
	ListByCategoryID(ctx context.Context, categoryID int64) ([]model.Dish, error)
	// カテゴリ名（大文字小文字無視）で検索
	ListByCategoryName(ctx context.Context, name string) ([]model.Dish, error)
}

type CategoryRepository interface {
	FindByID(ctx context.Context, categoryID int64) (model.Category, error)
	FindByName(ctx context.Context, name string) (model.Category, error)
	Create(ctx context.Context, category *model.Category) error
}

// メニュー投入用（seed）
type MenuWriter interface {
	UpsertCategory(ctx context.Context, category *model.Category) error
	UpsertDish(ctx context.Context, dish *model.Dish) error
}
