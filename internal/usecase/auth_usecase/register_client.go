package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"darkitchen/internal/domain/model"
	"darkitchen/internal/repository"
)

// パスワードの最小文字数
const MinCredentialLength = 6

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrMissingName        = errors.New("first name is required")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 会員登録の入力
type RegisterClientInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	Address     string
	City        string
	PostalCode  string
}

// 顧客の明示的な登録（チェックアウト時の自動作成とは別）
type RegisterClientUsecase struct {
	clients repository.ClientRepository
	hasher  CredentialHasher
	clock   Clock
}

// DI
func NewRegisterClientUsecase(clients repository.ClientRepository, hasher CredentialHasher, clock Clock) *RegisterClientUsecase {
	return &RegisterClientUsecase{clients: clients, hasher: hasher, clock: clock}
}

func (u *RegisterClientUsecase) Execute(ctx context.Context, in RegisterClientInput) (model.Client, error) {
	if !IsValidEmailFormat(in.Email) {
		return model.Client{}, ErrInvalidEmailFormat
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return model.Client{}, ErrMissingName
	}
	if len(in.Password) < MinCredentialLength {
		return model.Client{}, ErrPasswordTooShort
	}

	exists, err := u.clients.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return model.Client{}, err
	}
	if exists {
		return model.Client{}, ErrEmailAlreadyExists
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.Client{}, err
	}

	now := u.clock.Now()
	client := model.Client{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            model.NormalizeEmail(in.Email),
		Credential:       hashed,
		PhoneNumber:      strings.TrimSpace(in.PhoneNumber),
		Address:          strings.TrimSpace(in.Address),
		City:             strings.TrimSpace(in.City),
		PostalCode:       strings.TrimSpace(in.PostalCode),
		Active:           true,
		RegistrationDate: now,
		UpdatedAt:        now,
	}

	//同時登録はDBの一意制約で弾く
	if err := u.clients.Create(ctx, &client); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.Client{}, ErrEmailAlreadyExists
		}
		return model.Client{}, err
	}
	return client, nil
}

// メールチェック
func IsValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}
