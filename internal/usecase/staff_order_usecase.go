package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"
	auth "darkitchen/internal/usecase/auth_usecase"
)

// キッチン・配達・管理者向けの注文操作
type StaffOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	audit  repo.AuditLogRepository
	clock  auth.Clock
}

func NewStaffOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, audit repo.AuditLogRepository, clock auth.Clock) *StaffOrderUsecase {
	return &StaffOrderUsecase{tx: tx, orders: orders, audit: audit, clock: clock}
}

type StaffOrderListInput struct {
	Status   string
	Page     int
	Limit    int
	ClientID *int64
	// 注文日時の範囲（両端を含む）
	From     *time.Time
	To       *time.Time
}

type StaffOrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// 注文一覧（新しい順）
func (u *StaffOrderUsecase) List(ctx context.Context, in StaffOrderListInput) (StaffOrderListOutput, error) {
	// page/limitの最低限チェック
	if in.Page < 1 {
		return StaffOrderListOutput{}, Validation("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return StaffOrderListOutput{}, Validation("invalid limit")
	}

	if in.ClientID != nil && *in.ClientID <= 0 {
		return StaffOrderListOutput{}, Validation("invalid clientId")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return StaffOrderListOutput{}, Validation("from must be before to")
	}

	f := repo.OrderListFilter{Page: in.Page, Limit: in.Limit, ClientID: in.ClientID, From: in.From, To: in.To}
	if !model.IsAllStatusToken(in.Status) {
		//知らないトークンもそのまま渡す（何にも一致しない）
		s := model.TranslateStatusToken(in.Status)
		f.Status = &s
	}

	orders, total, err := u.orders.List(ctx, f)
	if err != nil {
		return StaffOrderListOutput{}, dbError(err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return StaffOrderListOutput{Orders: outs, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

type UpdateStatusInput struct {
	Status    string
	UpdatedBy string
}

// ステータス更新。
// 前進方向は検証しない。キャンセル済みからは動かせない。キャンセルへはキャンセル条件を適用
func (u *StaffOrderUsecase) UpdateStatus(ctx context.Context, actor string, orderID int64, in UpdateStatusInput) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, Validation("invalid id")
	}
	target, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return OrderOutput{}, Validation(fmt.Sprintf("invalid status %q", in.Status))
	}
	if by := strings.TrimSpace(in.UpdatedBy); by != "" {
		actor = actor + " (" + by + ")"
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound(fmt.Sprintf("order %d not found", orderID))
		}
		if err != nil {
			return dbError(err)
		}

		// すでに同じなら何もしない
		if o.Status == target {
			out = toOrderOutput(o)
			return nil
		}
		// 終端ガード
		if o.Status.Terminal() {
			return InvalidTransition(model.ErrOrderCancelled.Error())
		}

		before := o.Status
		now := u.clock.Now()
		if target == model.OrderStatusCancelled {
			if err := o.Cancel("", now); err != nil {
				return InvalidTransition(err.Error())
			}
		} else {
			o.Status = target
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, o.Status); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound(fmt.Sprintf("order %d not found", orderID))
			}
			return dbError(err)
		}

		entry := newAuditLog(actor, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
			map[string]any{"status": before},
			map[string]any{"status": o.Status},
			now,
		)
		if err := r.AuditLogs().Create(ctx, entry); err != nil {
			return dbError(err)
		}

		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 注文の操作履歴（古い順）
func (u *StaffOrderUsecase) History(ctx context.Context, orderID int64) ([]model.AuditLog, error) {
	if orderID <= 0 {
		return nil, Validation("invalid id")
	}
	if _, err := u.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound(fmt.Sprintf("order %d not found", orderID))
		}
		return nil, dbError(err)
	}

	rt := model.AuditResourceOrder
	logs, err := u.audit.List(ctx, repo.AuditLogFilter{
		ResourceType: &rt,
		ResourceID:   &orderID,
		Limit:        200,
	})
	if err != nil {
		return nil, dbError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
