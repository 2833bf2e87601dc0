package validator

import (
	"context"
	"fmt"
	"strings"

	"darkitchen/internal/usecase"
	auth "darkitchen/internal/usecase/auth_usecase"
)

// 1注文あたりの明細の上限
const maxCheckoutLines = 100

// 1明細あたりの数量の上限
const maxLineQuantity = 1000

type inputValidator struct{}

// Usecaseは interface を依存注入
func NewInputValidator() usecase.InputValidator {
	return &inputValidator{}
}

// チェックアウトの入力を検証
func (v *inputValidator) ValidateCheckout(ctx context.Context, in usecase.CheckoutInput) error {
	ci := in.Client

	// 必須チェック
	if strings.TrimSpace(ci.FullName) == "" {
		return usecase.Validation("clientInfo.fullName is required")
	}
	if strings.TrimSpace(ci.Email) == "" {
		return usecase.Validation("clientInfo.email is required")
	}
	if !auth.IsValidEmailFormat(ci.Email) {
		return usecase.Validation("clientInfo.email is invalid")
	}
	if strings.TrimSpace(ci.PhoneNumber) == "" {
		return usecase.Validation("clientInfo.phoneNumber is required")
	}
	if strings.TrimSpace(ci.DeliveryAddress) == "" {
		return usecase.Validation("clientInfo.deliveryAddress is required")
	}

	// 明細
	if len(in.Items) == 0 {
		return usecase.Validation("at least one item is required")
	}
	if len(in.Items) > maxCheckoutLines {
		return usecase.Validation(fmt.Sprintf("at most %d items per order", maxCheckoutLines))
	}
	for i, it := range in.Items {
		if it.DishID <= 0 {
			return usecase.Validation(fmt.Sprintf("items[%d].dishId is invalid", i))
		}
		if it.Quantity <= 0 || it.Quantity > maxLineQuantity {
			return usecase.Validation(fmt.Sprintf("items[%d].quantity is invalid", i))
		}
	}
	return nil
}

// パスワード変更の必須項目
func (v *inputValidator) ValidateCredentialChangeInput(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return usecase.Validation("currentPassword and newPassword are required")
	}
	return nil
}

// 新しいパスワードの条件（現在の照合の後に見る）
func (v *inputValidator) ValidateNewCredential(ctx context.Context, current, next string) error {
	if current == next {
		return usecase.Validation("new password must differ from the current one")
	}
	if len(next) < auth.MinCredentialLength {
		return usecase.Validation(fmt.Sprintf("new password must be at least %d characters", auth.MinCredentialLength))
	}
	return nil
}
