package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// メニューのYAML
//
//	categories:
//	  - name: Pizzas
//	    dishes:
//	      - name: Margherita
//	        price: "9.50"
type Menu struct {
	Categories []MenuCategory `yaml:"categories"`
}

type MenuCategory struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Icon        string     `yaml:"icon"`
	Dishes      []MenuDish `yaml:"dishes"`
}

type MenuDish struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Image       string  `yaml:"image"`
	Rating      float64 `yaml:"rating"`
	PrepTime    string  `yaml:"prepTime"`
	Popular     bool    `yaml:"popular"`
	New         bool    `yaml:"new"`
	// 省略時は販売中
	Available *bool `yaml:"available"`
}

type Result struct {
	Categories int
	Dishes     int
}

// YAMLを読み込んで最低限の形をチェックする
func Load(r io.Reader) (Menu, error) {
	var m Menu
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Menu{}, fmt.Errorf("decode menu: %w", err)
	}

	for i, c := range m.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return Menu{}, fmt.Errorf("categories[%d]: name is required", i)
		}
		for j, d := range c.Dishes {
			if strings.TrimSpace(d.Name) == "" {
				return Menu{}, fmt.Errorf("%s.dishes[%d]: name is required", c.Name, j)
			}
			p, err := decimal.NewFromString(strings.TrimSpace(d.Price))
			if err != nil || p.IsNegative() {
				return Menu{}, fmt.Errorf("%s/%s: invalid price %q", c.Name, d.Name, d.Price)
			}
		}
	}
	return m, nil
}

// Apply はカテゴリ→料理の順にupsertする。何度流しても同じ結果になる
func Apply(ctx context.Context, w repo.MenuWriter, m Menu) (Result, error) {
	var res Result
	for _, mc := range m.Categories {
		c := model.Category{
			Name:        strings.TrimSpace(mc.Name),
			Description: mc.Description,
			Icon:        mc.Icon,
		}
		if err := w.UpsertCategory(ctx, &c); err != nil {
			return res, fmt.Errorf("upsert category %s: %w", c.Name, err)
		}
		res.Categories++

		for _, md := range mc.Dishes {
			price, _ := decimal.NewFromString(strings.TrimSpace(md.Price))
			available := true
			if md.Available != nil {
				available = *md.Available
			}
			d := model.Dish{
				Name:        strings.TrimSpace(md.Name),
				Description: md.Description,
				Price:       price.Round(2),
				Image:       md.Image,
				CategoryID:  c.ID,
				Rating:      md.Rating,
				PrepTime:    md.PrepTime,
				Popular:     md.Popular,
				IsNew:       md.New,
				Available:   available,
			}
			if err := w.UpsertDish(ctx, &d); err != nil {
				return res, fmt.Errorf("upsert dish %s: %w", d.Name, err)
			}
			res.Dishes++
		}
	}
	return res, nil
}
