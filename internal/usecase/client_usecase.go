package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"
	auth "darkitchen/internal/usecase/auth_usecase"
)

// 顧客プロフィール（本人 or ADMIN）の操作
type ClientUsecase struct {
	tx        repo.TransactionManager
	clients   repo.ClientRepository
	orders    repo.OrderRepository
	register  *auth.RegisterClientUsecase
	hasher    auth.CredentialHasher
	verifier  auth.CredentialVerifier
	validator InputValidator
	clock     auth.Clock
}

func NewClientUsecase(
	tx repo.TransactionManager,
	clients repo.ClientRepository,
	orders repo.OrderRepository,
	register *auth.RegisterClientUsecase,
	hasher auth.CredentialHasher,
	verifier auth.CredentialVerifier,
	validator InputValidator,
	clock auth.Clock,
) *ClientUsecase {
	return &ClientUsecase{
		tx:        tx,
		clients:   clients,
		orders:    orders,
		register:  register,
		hasher:    hasher,
		verifier:  verifier,
		validator: validator,
		clock:     clock,
	}
}

func (u *ClientUsecase) Register(ctx context.Context, in auth.RegisterClientInput) (ClientOutput, error) {
	c, err := u.register.Execute(ctx, in)
	switch {
	case err == nil:
		return ToClientOutput(c), nil
	case errors.Is(err, auth.ErrInvalidEmailFormat),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrMissingName):
		return ClientOutput{}, Validation(err.Error())
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return ClientOutput{}, Conflict(err.Error())
	default:
		return ClientOutput{}, dbError(err)
	}
}

func (u *ClientUsecase) Get(ctx context.Context, clientID int64) (ClientOutput, error) {
	c, err := u.find(ctx, u.clients, clientID)
	if err != nil {
		return ClientOutput{}, err
	}
	return ToClientOutput(c), nil
}

// nilの項目は変更しない
type ProfileUpdateInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
	City        *string
	PostalCode  *string
}

func (u *ClientUsecase) UpdateProfile(ctx context.Context, clientID int64, in ProfileUpdateInput) (ClientOutput, error) {
	c, err := u.find(ctx, u.clients, clientID)
	if err != nil {
		return ClientOutput{}, err
	}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return ClientOutput{}, Validation("firstName must not be empty")
		}
		c.FirstName = name
	}
	apply(&c.LastName, in.LastName)
	apply(&c.PhoneNumber, in.PhoneNumber)
	apply(&c.Address, in.Address)
	apply(&c.City, in.City)
	apply(&c.PostalCode, in.PostalCode)

	if err := u.clients.UpdateProfile(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ClientOutput{}, NotFound(fmt.Sprintf("client %d not found", clientID))
		}
		return ClientOutput{}, dbError(err)
	}

	// 書いていない列（有効フラグ等）は読み直した値を返す
	fresh, err := u.find(ctx, u.clients, clientID)
	if err != nil {
		return ClientOutput{}, err
	}
	return ToClientOutput(fresh), nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// パスワード変更。
// 必須 → 現在のパスワード照合 → 新しい値の条件 の順に見る
func (u *ClientUsecase) ChangeCredential(ctx context.Context, actor string, clientID int64, current, next string) error {
	if err := u.validator.ValidateCredentialChangeInput(ctx, current, next); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := u.find(ctx, r.Clients(), clientID)
		if err != nil {
			return err
		}
		if !u.verifier.Verify(current, c.Credential) {
			return Unauthorized("current password is incorrect")
		}
		if err := u.validator.ValidateNewCredential(ctx, current, next); err != nil {
			return err
		}

		hashed, err := u.hasher.Hash(next)
		if err != nil {
			return Internal("failed to hash password")
		}
		if err := r.Clients().UpdateCredential(ctx, c.ID, hashed); err != nil {
			return dbError(err)
		}

		entry := newAuditLog(actor, model.AuditActionChangeCredential, model.AuditResourceClient, c.ID, nil, nil, u.clock.Now())
		if err := r.AuditLogs().Create(ctx, entry); err != nil {
			return dbError(err)
		}
		return nil
	})
}

// 論理削除（active=false）と再開
func (u *ClientUsecase) SetActive(ctx context.Context, actor string, clientID int64, active bool) (ClientOutput, error) {
	var out ClientOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := u.find(ctx, r.Clients(), clientID)
		if err != nil {
			return err
		}
		before := c.Active
		if before == active {
			out = ToClientOutput(c)
			return nil
		}

		if err := r.Clients().SetActive(ctx, c.ID, active); err != nil {
			return dbError(err)
		}
		c.Active = active
		entry := newAuditLog(actor, model.AuditActionSetClientActive, model.AuditResourceClient, c.ID,
			map[string]any{"active": before},
			map[string]any{"active": active},
			u.clock.Now(),
		)
		if err := r.AuditLogs().Create(ctx, entry); err != nil {
			return dbError(err)
		}
		out = ToClientOutput(c)
		return nil
	})
	if err != nil {
		return ClientOutput{}, err
	}
	return out, nil
}

type ClientStatsOutput struct {
	ClientID      int64       `json:"clientId"`
	OrderCount    int64       `json:"orderCount"`
	TotalSpent    model.Money `json:"totalSpent"`
	LastOrderDate *time.Time  `json:"lastOrderDate"`
}

// 件数・合計・最終注文日（キャンセル済みも含む）
func (u *ClientUsecase) Stats(ctx context.Context, clientID int64) (ClientStatsOutput, error) {
	exists, err := u.clients.ExistsByID(ctx, clientID)
	if err != nil {
		return ClientStatsOutput{}, dbError(err)
	}
	if !exists {
		return ClientStatsOutput{}, NotFound(fmt.Sprintf("client %d not found", clientID))
	}

	s, err := u.orders.StatsByClientID(ctx, clientID)
	if err != nil {
		return ClientStatsOutput{}, dbError(err)
	}
	return ClientStatsOutput{
		ClientID:      clientID,
		OrderCount:    s.OrderCount,
		TotalSpent:    s.TotalSpent,
		LastOrderDate: s.LastOrderDate,
	}, nil
}

func (u *ClientUsecase) find(ctx context.Context, clients repo.ClientRepository, clientID int64) (model.Client, error) {
	if clientID <= 0 {
		return model.Client{}, Validation("invalid id")
	}
	c, err := clients.FindByID(ctx, clientID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Client{}, NotFound(fmt.Sprintf("client %d not found", clientID))
	}
	if err != nil {
		return model.Client{}, dbError(err)
	}
	return c, nil
}
