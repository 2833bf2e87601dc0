package repository

import (
	"context"

	"darkitchen/internal/domain/model"
)

// 顧客の保存・取得を約束。emailは正規化済みの値を渡す
type ClientRepository interface {
	// IDから顧客を1件取得する。
	FindByID(ctx context.Context, clientID int64) (model.Client, error)
	//メールから顧客を1件取得する。
	FindByEmail(ctx context.Context, email string) (model.Client, error)

	ExistsByID(ctx context.Context, clientID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	//新規作成。メール重複はErrDuplicateEmail
	Create(ctx context.Context, client *model.Client) error

	//同じメールが無ければ作成、あれば既存を返す（created=false）
	CreateOrGet(ctx context.Context, client model.Client) (stored model.Client, created bool, err error)

	// 更新は操作ごとに列を分ける（他の操作の値を古い値で上書きしない）
	// 名前・電話・住所だけ
	UpdateProfile(ctx context.Context, client model.Client) error
	UpdateCredential(ctx context.Context, clientID int64, credential string) error
	SetActive(ctx context.Context, clientID int64, active bool) error
}
