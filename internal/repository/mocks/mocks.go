// Package mocks はusecaseのunitテスト用のtestify mock。
package mocks

import (
	"context"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// TxManager は WithinTx の中で渡す repos を固定して unit テストを回す。
// fnのエラーはそのまま返す（ロールバックは呼び出し側で確認しない）
type TxManager struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxRepos struct {
	ClientRepo    *ClientRepository
	DishRepo      *DishRepository
	OrderRepo     *OrderRepository
	OrderItemRepo *OrderItemRepository
	AuditLogRepo  *AuditLogRepository
}

func (r *TxRepos) Clients() repo.ClientRepository       { return r.ClientRepo }
func (r *TxRepos) Dishes() repo.DishRepository          { return r.DishRepo }
func (r *TxRepos) Orders() repo.OrderRepository         { return r.OrderRepo }
func (r *TxRepos) OrderItems() repo.OrderItemRepository { return r.OrderItemRepo }
func (r *TxRepos) AuditLogs() repo.AuditLogRepository   { return r.AuditLogRepo }

// =====================
// ClientRepository
// =====================

type ClientRepository struct{ mock.Mock }

func (m *ClientRepository) FindByID(ctx context.Context, clientID int64) (model.Client, error) {
	args := m.Called(ctx, clientID)
	c, _ := args.Get(0).(model.Client)
	return c, args.Error(1)
}

func (m *ClientRepository) FindByEmail(ctx context.Context, email string) (model.Client, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(model.Client)
	return c, args.Error(1)
}

func (m *ClientRepository) ExistsByID(ctx context.Context, clientID int64) (bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Error(1)
}

func (m *ClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *ClientRepository) CreateOrGet(ctx context.Context, client model.Client) (model.Client, bool, error) {
	args := m.Called(ctx, client)
	c, _ := args.Get(0).(model.Client)
	return c, args.Bool(1), args.Error(2)
}

func (m *ClientRepository) UpdateProfile(ctx context.Context, client model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *ClientRepository) UpdateCredential(ctx context.Context, clientID int64, credential string) error {
	args := m.Called(ctx, clientID, credential)
	return args.Error(0)
}

func (m *ClientRepository) SetActive(ctx context.Context, clientID int64, active bool) error {
	args := m.Called(ctx, clientID, active)
	return args.Error(0)
}

// =====================
// DishRepository
// =====================

type DishRepository struct{ mock.Mock }

func (m *DishRepository) FindByID(ctx context.Context, dishID int64) (model.Dish, error) {
	args := m.Called(ctx, dishID)
	d, _ := args.Get(0).(model.Dish)
	return d, args.Error(1)
}

func (m *DishRepository) ListByCategoryID(ctx context.Context, categoryID int64) ([]model.Dish, error) {
	args := m.Called(ctx, categoryID)
	ds, _ := args.Get(0).([]model.Dish)
	return ds, args.Error(1)
}

func (m *DishRepository) ListByCategoryName(ctx context.Context, name string) ([]model.Dish, error) {
	args := m.Called(ctx, name)
	ds, _ := args.Get(0).([]model.Dish)
	return ds, args.Error(1)
}

type CategoryRepository struct{ mock.Mock }

func (m *CategoryRepository) FindByID(ctx context.Context, categoryID int64) (model.Category, error) {
	args := m.Called(ctx, categoryID)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepository) FindByName(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// =====================
// OrderRepository
// =====================

type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepository) ListByClientID(ctx context.Context, clientID int64, ascending bool) ([]model.Order, error) {
	args := m.Called(ctx, clientID, ascending)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	total, _ := args.Get(1).(int64)
	return orders, total, args.Error(2)
}

// Create はIDを埋める（Run で上書き可）
func (m *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) UpdateTotal(ctx context.Context, orderID int64, total model.Money) error {
	args := m.Called(ctx, orderID, total)
	return args.Error(0)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepository) UpdateNotes(ctx context.Context, orderID int64, notes string) error {
	args := m.Called(ctx, orderID, notes)
	return args.Error(0)
}

func (m *OrderRepository) StatsByClientID(ctx context.Context, clientID int64) (model.ClientStats, error) {
	args := m.Called(ctx, clientID)
	s, _ := args.Get(0).(model.ClientStats)
	return s, args.Error(1)
}

// =====================
// OrderItemRepository
// =====================

type OrderItemRepository struct{ mock.Mock }

func (m *OrderItemRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

// =====================
// AuditLogRepository
// =====================

type AuditLogRepository struct{ mock.Mock }

func (m *AuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}
