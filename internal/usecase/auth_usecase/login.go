package auth

import (
	"context"
	"errors"

	"darkitchen/internal/domain/model"
	"darkitchen/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

type AccessToken struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type LoginOutput struct {
	Client model.Client
	Token  AccessToken
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid email or password")

// 停止済みの顧客
var ErrClientInactive = errors.New("client account is inactive")

// 顧客ログイン（注文画面用）
type ClientLoginUsecase struct {
	clients  repository.ClientRepository
	verifier CredentialVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewClientLoginUsecase(
	clients repository.ClientRepository,
	verifier CredentialVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *ClientLoginUsecase {
	return &ClientLoginUsecase{
		clients:  clients,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// Authenticate はメールとパスワードを照合して顧客を返す
func (u *ClientLoginUsecase) Authenticate(ctx context.Context, email, password string) (model.Client, error) {
	client, err := u.clients.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Client{}, ErrInvalidCredentials
		}
		return model.Client{}, err
	}

	if !u.verifier.Verify(password, client.Credential) {
		return model.Client{}, ErrInvalidCredentials
	}

	//停止中はログイン不可
	if !client.Active {
		return model.Client{}, ErrClientInactive
	}
	return client, nil
}

// ログインしてアクセストークンを発行
func (u *ClientLoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	client, err := u.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(client.ID, RoleClient, now)
	if err != nil {
		return out, err
	}

	out.Client = client
	out.Token = AccessToken{
		AccessToken: token,
		ExpiresIn:   int(exp.Sub(now).Seconds()),
	}
	return out, nil
}
