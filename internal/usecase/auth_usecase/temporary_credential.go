package auth

import (
	"io"

	"github.com/google/uuid"
)

// 仮パスワードの長さ
const TemporaryCredentialLength = 8

// GenerateTemporaryCredential はentropyから8文字の仮パスワードを作る。
// 同じバイト列なら同じ値になる
func GenerateTemporaryCredential(entropy io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(entropy)
	if err != nil {
		return "", err
	}
	return id.String()[:TemporaryCredentialLength], nil
}
