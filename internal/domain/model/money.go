package model

import "github.com/shopspring/decimal"

// 金額（numeric(12,2)で保存）
type Money = decimal.Decimal

func init() {
	//JSONでは数値として返す（"22.5"ではなく22.5）
	decimal.MarshalJSONWithoutQuotes = true
}
