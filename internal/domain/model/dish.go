package model

import "time"

type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:varchar(500)" json:"description"`
	Icon        string `gorm:"type:varchar(255)" json:"icon"`
}

// メニューの1品。Priceは現在価格（注文時に明細へコピーされる）
type Dish struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	Price       Money     `gorm:"type:numeric(12,2);not null" json:"price"`
	Image       string    `gorm:"type:varchar(500)" json:"image"`
	CategoryID  int64     `gorm:"not null;index" json:"categoryId"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Rating      float64   `gorm:"not null;default:0" json:"rating"`
	PrepTime    string    `gorm:"type:varchar(50)" json:"prepTime"`
	Popular     bool      `gorm:"column:is_popular;not null;default:false" json:"isPopular"`
	IsNew       bool      `gorm:"column:is_new;not null;default:false" json:"isNew"`
	Available   bool      `gorm:"not null" json:"available"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
