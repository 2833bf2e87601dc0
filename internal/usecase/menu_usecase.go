package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"

	"github.com/sirupsen/logrus"
)

// 画像からカテゴリ名を推定する外部サービス
type CategoryClassifier interface {
	DetectCategory(ctx context.Context, filename string, image io.Reader) (string, error)
}

type MenuUsecase struct {
	dishes     repo.DishRepository
	categories repo.CategoryRepository
	classifier CategoryClassifier
	log        logrus.FieldLogger
}

// DI
func NewMenuUsecase(
	dishes repo.DishRepository,
	categories repo.CategoryRepository,
	classifier CategoryClassifier,
	log logrus.FieldLogger,
) *MenuUsecase {
	return &MenuUsecase{
		dishes:     dishes,
		categories: categories,
		classifier: classifier,
		log:        log,
	}
}

func (u *MenuUsecase) GetDish(ctx context.Context, dishID int64) (model.Dish, error) {
	if dishID <= 0 {
		return model.Dish{}, Validation("invalid id")
	}
	d, err := u.dishes.FindByID(ctx, dishID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Dish{}, NotFound(fmt.Sprintf("dish %d not found", dishID))
	}
	if err != nil {
		return model.Dish{}, dbError(err)
	}
	return d, nil
}

// カテゴリが無ければ404
func (u *MenuUsecase) ListByCategory(ctx context.Context, categoryID int64) ([]model.Dish, error) {
	if categoryID <= 0 {
		return nil, Validation("invalid category id")
	}
	if _, err := u.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound(fmt.Sprintf("category %d not found", categoryID))
		}
		return nil, dbError(err)
	}

	dishes, err := u.dishes.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, dbError(err)
	}
	return dishes, nil
}

type ImageSearchOutput struct {
	DetectedCategory string       `json:"detected_category"`
	Results          []model.Dish `json:"results"`
}

// 画像を分類サービスに送り、推定カテゴリの料理を返す
func (u *MenuUsecase) SearchByImage(ctx context.Context, filename string, image io.Reader) (ImageSearchOutput, error) {
	label, err := u.classifier.DetectCategory(ctx, filename, image)
	if err != nil {
		u.log.WithError(err).Warn("image classification failed")
		return ImageSearchOutput{}, NewHTTPError(http.StatusBadGateway, "image classification failed")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return ImageSearchOutput{DetectedCategory: "", Results: []model.Dish{}}, nil
	}

	dishes, err := u.dishes.ListByCategoryName(ctx, label)
	if err != nil {
		return ImageSearchOutput{}, dbError(err)
	}
	if dishes == nil {
		dishes = []model.Dish{}
	}
	return ImageSearchOutput{DetectedCategory: label, Results: dishes}, nil
}
