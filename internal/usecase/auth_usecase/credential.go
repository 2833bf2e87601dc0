package auth

import (
	"crypto/subtle"
	"fmt"

	"darkitchen/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// 平文から保存用の値へ
type CredentialHasher interface {
	Hash(plain string) (string, error)
}

// 入力と保存値を比べる
type CredentialVerifier interface {
	Verify(plain string, stored string) bool
}

// bcryptハッシュ化
type BcryptCredentialHasher struct {
	cost int
}

// DI
func NewBcryptCredentialHasher(cost int) *BcryptCredentialHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCredentialHasher{cost: cost}
}

func (h *BcryptCredentialHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// bcryptハッシュと平文を比較
type BcryptCredentialVerifier struct{}

func NewBcryptCredentialVerifier() *BcryptCredentialVerifier {
	return &BcryptCredentialVerifier{}
}

func (v *BcryptCredentialVerifier) Verify(plain string, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// 旧データ互換用。そのまま保存する
type PlainCredentialHasher struct{}

func (PlainCredentialHasher) Hash(plain string) (string, error) {
	return plain, nil
}

// 旧データ互換用。バイト列の完全一致
type PlainCredentialVerifier struct{}

func (PlainCredentialVerifier) Verify(plain string, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(plain), []byte(stored)) == 1
}

// 設定の方式からhasher/verifierの組を作る
func NewCredentialScheme(scheme string, bcryptCost int) (CredentialHasher, CredentialVerifier, error) {
	switch scheme {
	case "", config.CredentialSchemeBcrypt:
		return NewBcryptCredentialHasher(bcryptCost), NewBcryptCredentialVerifier(), nil
	case config.CredentialSchemePlain:
		return PlainCredentialHasher{}, PlainCredentialVerifier{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential scheme %q", scheme)
	}
}
