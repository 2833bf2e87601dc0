package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
	RoleChef   Role = "CHEF"
	RoleDriver Role = "DRIVER"
)

// スタッフ（注文ステータスを動かせる）
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleChef || r == RoleDriver
}

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleClient, RoleAdmin, RoleChef, RoleDriver:
		return r, true
	default:
		return "", false
	}
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(subject int64, role Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// HS256で署名するissuer
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// DI
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Issue(subject int64, role Role, now time.Time) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(subject, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
