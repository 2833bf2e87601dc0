package model

import (
	"strings"
	"time"
)

// 顧客（スタッフのUserとは別）
type Client struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"type:varchar(255);not null" json:"firstName"`
	LastName  string `gorm:"type:varchar(255);not null;default:''" json:"lastName"`

	//小文字に正規化して保存（大文字小文字を区別しない一意性）
	Email string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`

	//ハッシュ（互換モードでは平文）。絶対に返さない
	Credential string `gorm:"column:credential;not null" json:"-"`

	PhoneNumber string `gorm:"type:varchar(30)" json:"phoneNumber"`
	Address     string `gorm:"type:varchar(500)" json:"address"`
	City        string `gorm:"type:varchar(100)" json:"city"`
	PostalCode  string `gorm:"type:varchar(20)" json:"postalCode"`

	//論理削除フラグ
	Active bool `gorm:"not null" json:"active"`

	RegistrationDate time.Time `gorm:"not null" json:"registrationDate"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NormalizeEmailはメールを比較・保存用の形にする
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitFullNameは最初の空白で姓名を分ける。空白が無ければ姓は空文字
func SplitFullName(fullName string) (first string, last string) {
	name := strings.TrimSpace(fullName)
	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

// 顧客ごとの集計
type ClientStats struct {
	OrderCount    int64
	TotalSpent    Money
	LastOrderDate *time.Time
}
