package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"
	auth "darkitchen/internal/usecase/auth_usecase"

	"github.com/sirupsen/logrus"
)

// 並び替えキー
const (
	SortCreatedAtAsc  = "createdAt_asc"
	SortCreatedAtDesc = "createdAt_desc"
	SortTotalAsc      = "total_asc"
	SortTotalDesc     = "total_desc"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	clients   repo.ClientRepository
	resolver  *ClientResolver
	validator InputValidator
	clock     auth.Clock
	log       logrus.FieldLogger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	clients repo.ClientRepository,
	resolver *ClientResolver,
	validator InputValidator,
	clock auth.Clock,
	log logrus.FieldLogger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		orders:    orders,
		clients:   clients,
		resolver:  resolver,
		validator: validator,
		clock:     clock,
		log:       log,
	}
}

type CheckoutLine struct {
	DishID   int64
	Quantity int64
	//クライアントが送ってきた単価（保存には使わない）
	Price model.Money
}

type CheckoutInput struct {
	Client ClientInfo
	Items  []CheckoutLine
	Notes  string
	//クライアント側の合計（参考値）
	TotalAmount model.Money
}

// Checkout は顧客の解決から明細・合計の保存までを1トランザクションで行う。
// 価格はメニューの現在価格を使い、送られてきた価格・合計は無視する
func (u *OrderUsecase) Checkout(ctx context.Context, in CheckoutInput) (OrderOutput, error) {
	if err := u.validator.ValidateCheckout(ctx, in); err != nil {
		return OrderOutput{}, err
	}

	// ハッシュ化はトランザクションを開く前に済ませる
	prepared, err := u.resolver.Prepare(ctx, u.clients, in.Client)
	if err != nil {
		u.log.WithError(err).Error("failed to prepare client")
		return OrderOutput{}, dbError(err)
	}

	var created model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		client, err := u.resolver.Resolve(ctx, r.Clients(), prepared)
		if err != nil {
			return dbError(err)
		}

		//ヘッダを先に作ってIDを取る
		order := model.NewOrder(
			client,
			strings.TrimSpace(in.Client.DeliveryAddress),
			strings.TrimSpace(in.Client.PhoneNumber),
			in.Notes,
			u.clock.Now(),
		)
		if err := r.Orders().Create(ctx, &order); err != nil {
			return dbError(err)
		}

		for _, line := range in.Items {
			dish, err := r.Dishes().FindByID(ctx, line.DishID)
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound(fmt.Sprintf("dish %d not found", line.DishID))
			}
			if err != nil {
				return dbError(err)
			}
			order.AddItem(model.NewOrderItem(dish, line.Quantity))
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, order.Items); err != nil {
			return dbError(err)
		}
		if err := r.Orders().UpdateTotal(ctx, order.ID, order.TotalAmount); err != nil {
			return dbError(err)
		}

		created = order
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if !in.TotalAmount.IsZero() && !in.TotalAmount.Equal(created.TotalAmount) {
		u.log.WithFields(logrus.Fields{
			"order_id": created.ID,
			"declared": in.TotalAmount.String(),
			"computed": created.TotalAmount.String(),
		}).Info("declared total differs from computed total")
	}

	return toOrderOutput(created), nil
}

// 注文1件
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, Validation("invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NotFound(fmt.Sprintf("order %d not found", orderID))
	}
	if err != nil {
		return OrderOutput{}, dbError(err)
	}
	return toOrderOutput(o), nil
}

type ListClientOrdersInput struct {
	ClientID int64
	Status   string
	// 受け付けるが絞り込みには使わない
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string
}

// 顧客の注文一覧。並びは注文日時（既定は新しい順）、合計順は射影後に安定ソート
func (u *OrderUsecase) ListClientOrders(ctx context.Context, in ListClientOrdersInput) ([]OrderOutput, error) {
	log := u.log.WithField("client_id", in.ClientID)

	exists, err := u.clients.ExistsByID(ctx, in.ClientID)
	if err != nil {
		log.WithError(err).Error("failed to look up client")
		return nil, fmt.Errorf("list orders of client %d: %w", in.ClientID, Internal("failed to load orders"))
	}
	if !exists {
		return nil, NotFound(fmt.Sprintf("client %d not found", in.ClientID))
	}

	if in.StartDate != nil || in.EndDate != nil {
		log.Debug("date range filter is accepted but not applied")
	}

	sortBy := strings.TrimSpace(in.SortBy)
	orders, err := u.orders.ListByClientID(ctx, in.ClientID, sortBy == SortCreatedAtAsc)
	if err != nil {
		log.WithError(err).Error("failed to load orders")
		return nil, fmt.Errorf("list orders of client %d: %w", in.ClientID, Internal("failed to load orders"))
	}

	filterAll := model.IsAllStatusToken(in.Status)
	want := model.TranslateStatusToken(in.Status)

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		if !filterAll && !o.Status.Matches(want) {
			continue
		}
		outs = append(outs, toOrderOutput(o))
	}

	switch sortBy {
	case SortTotalAsc:
		sort.SliceStable(outs, func(i, j int) bool {
			return outs[i].TotalAmount.LessThan(outs[j].TotalAmount)
		})
	case SortTotalDesc:
		sort.SliceStable(outs, func(i, j int) bool {
			return outs[i].TotalAmount.GreaterThan(outs[j].TotalAmount)
		})
	}

	return outs, nil
}

// キャンセル（受付待ち・調理中のみ）
func (u *OrderUsecase) Cancel(ctx context.Context, actor string, orderID int64, reason string) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, Validation("invalid id")
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

		before := o.Status
		now := u.clock.Now()
		if err := o.Cancel(strings.TrimSpace(reason), now); err != nil {
			return InvalidTransition(err.Error())
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, o.Status); err != nil {
			return dbError(err)
		}
		if err := r.Orders().UpdateNotes(ctx, o.ID, o.Notes); err != nil {
			return dbError(err)
		}

		entry := newAuditLog(actor, model.AuditActionCancelOrder, model.AuditResourceOrder, o.ID,
			map[string]any{"status": before},
			map[string]any{"status": o.Status, "reason": strings.TrimSpace(reason)},
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

// Reorder は元注文と同じ料理・数量で新しい注文を作る。
// 価格・料理名はメニューの現在の値を使う
func (u *OrderUsecase) Reorder(ctx context.Context, actor string, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, Validation("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		src, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound(fmt.Sprintf("order %d not found", orderID))
		}
		if err != nil {
			return dbError(err)
		}

		client, err := r.Clients().FindByID(ctx, src.ClientID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound(fmt.Sprintf("client %d not found", src.ClientID))
		}
		if err != nil {
			return dbError(err)
		}

		now := u.clock.Now()
		order := model.NewOrder(client, src.DeliveryAddress, src.PhoneNumber, model.ReorderNote(src.ID), now)
		if err := r.Orders().Create(ctx, &order); err != nil {
			return dbError(err)
		}

		for _, it := range src.Items {
			dish, err := r.Dishes().FindByID(ctx, it.DishID)
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound(fmt.Sprintf("dish %d not found", it.DishID))
			}
			if err != nil {
				return dbError(err)
			}
			order.AddItem(model.NewOrderItem(dish, it.Quantity))
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, order.Items); err != nil {
			return dbError(err)
		}
		if err := r.Orders().UpdateTotal(ctx, order.ID, order.TotalAmount); err != nil {
			return dbError(err)
		}

		entry := newAuditLog(actor, model.AuditActionReorder, model.AuditResourceOrder, order.ID,
			map[string]any{"sourceOrderId": src.ID},
			map[string]any{"orderId": order.ID, "totalAmount": order.TotalAmount},
			now,
		)
		if err := r.AuditLogs().Create(ctx, entry); err != nil {
			return dbError(err)
		}

		out = toOrderOutput(order)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// チェックアウト前にメールが登録済みか
func (u *OrderUsecase) ClientExists(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, Validation("email is required")
	}
	ok, err := u.clients.ExistsByEmail(ctx, email)
	if err != nil {
		return false, dbError(err)
	}
	return ok, nil
}

// HTTPErrorならそのまま、それ以外は500
func dbError(err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return Internal("db error")
}
