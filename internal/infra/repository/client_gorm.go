package repository

import (
	"context"
	"errors"
	"time"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postgresの一意制約違反
const pgUniqueViolation = "23505"

type ClientGormRepository struct {
	db *gorm.DB
}

// DI
func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

// IDで顧客を1件取得
func (r *ClientGormRepository) FindByID(ctx context.Context, clientID int64) (model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("id = ?", clientID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Client{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Client{}, err
	}
	return c, nil
}

// emailで顧客を1件取得
func (r *ClientGormRepository) FindByEmail(ctx context.Context, email string) (model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).
		Where("email = ?", model.NormalizeEmail(email)).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Client{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Client{}, err
	}
	return c, nil
}

func (r *ClientGormRepository) ExistsByID(ctx context.Context, clientID int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", clientID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ClientGormRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("email = ?", model.NormalizeEmail(email)).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create は顧客を新規作成
func (r *ClientGormRepository) Create(ctx context.Context, client *model.Client) error {
	client.Email = model.NormalizeEmail(client.Email)
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// 同じメールの同時チェックアウトでも1件しか作らない。
// ON CONFLICT DO NOTHINGで入らなかったら既存を読み直す
func (r *ClientGormRepository) CreateOrGet(ctx context.Context, client model.Client) (model.Client, bool, error) {
	client.Email = model.NormalizeEmail(client.Email)

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&client)
	if res.Error != nil {
		return model.Client{}, false, res.Error
	}
	if res.RowsAffected == 1 {
		return client, true, nil
	}

	existing, err := r.FindByEmail(ctx, client.Email)
	if err != nil {
		return model.Client{}, false, err
	}
	return existing, false, nil
}

// プロフィール項目だけ更新（credential・activeには触らない）
func (r *ClientGormRepository) UpdateProfile(ctx context.Context, client model.Client) error {
	client.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id = ?", client.ID).
		Select("first_name", "last_name", "phone_number", "address", "city", "postal_code", "updated_at").
		Updates(&client)
	return rowsOrNotFound(res)
}

// 認証情報だけ更新
func (r *ClientGormRepository) UpdateCredential(ctx context.Context, clientID int64, credential string) error {
	res := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]any{"credential": credential, "updated_at": time.Now()})
	return rowsOrNotFound(res)
}

// activeだけ更新（論理削除・再開）
func (r *ClientGormRepository) SetActive(ctx context.Context, clientID int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]any{"active": active, "updated_at": time.Now()})
	return rowsOrNotFound(res)
}

func rowsOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
