package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"
	auth "darkitchen/internal/usecase/auth_usecase"
)

// チェックアウト時の顧客情報
type ClientInfo struct {
	FullName        string
	Email           string
	PhoneNumber     string
	DeliveryAddress string
	Password        string
}

// ClientResolver はチェックアウトの顧客をメールで探し、無ければ作る
type ClientResolver struct {
	hasher  auth.CredentialHasher
	entropy io.Reader
	clock   auth.Clock
}

// entropyは仮パスワード用（本番は crypto/rand.Reader）
func NewClientResolver(hasher auth.CredentialHasher, entropy io.Reader, clock auth.Clock) *ClientResolver {
	return &ClientResolver{hasher: hasher, entropy: entropy, clock: clock}
}

// 解決前の顧客情報。新規になりそうなら保存用の値を先に作っておく
type PreparedClient struct {
	Info       ClientInfo
	Email      string
	Credential string
}

// Prepare はトランザクションの外で呼ぶ。
// bcryptは遅いので、メールが未登録のときだけここでハッシュ化する
func (r *ClientResolver) Prepare(ctx context.Context, clients repo.ClientRepository, in ClientInfo) (PreparedClient, error) {
	p := PreparedClient{Info: in, Email: model.NormalizeEmail(in.Email)}

	exists, err := clients.ExistsByEmail(ctx, p.Email)
	if err != nil {
		return PreparedClient{}, err
	}
	if exists {
		return p, nil
	}

	if p.Credential, err = r.credential(in.Password); err != nil {
		return PreparedClient{}, err
	}
	return p, nil
}

// 既存の顧客なら名前・電話・住所は上書きしない。
// 作成はメールの一意制約で insert-if-absent
func (r *ClientResolver) Resolve(ctx context.Context, clients repo.ClientRepository, p PreparedClient) (model.Client, error) {
	existing, err := clients.FindByEmail(ctx, p.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Client{}, err
	}

	hashed := p.Credential
	if hashed == "" {
		// Prepareの後で消えた場合だけ
		if hashed, err = r.credential(p.Info.Password); err != nil {
			return model.Client{}, err
		}
	}

	in := p.Info
	first, last := model.SplitFullName(in.FullName)
	now := r.clock.Now()

	stored, _, err := clients.CreateOrGet(ctx, model.Client{
		FirstName:        first,
		LastName:         last,
		Email:            p.Email,
		Credential:       hashed,
		PhoneNumber:      strings.TrimSpace(in.PhoneNumber),
		Address:          strings.TrimSpace(in.DeliveryAddress),
		Active:           true,
		RegistrationDate: now,
		UpdatedAt:        now,
	})
	if err != nil {
		return model.Client{}, err
	}
	return stored, nil
}

// パスワード未指定なら仮パスワードを発行してハッシュ化
func (r *ClientResolver) credential(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		var err error
		if password, err = auth.GenerateTemporaryCredential(r.entropy); err != nil {
			return "", err
		}
	}
	return r.hasher.Hash(password)
}
