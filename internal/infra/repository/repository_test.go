package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"darkitchen/internal/domain/model"
	"darkitchen/internal/infra/db/dbtest"
	repo "darkitchen/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMenu(t *testing.T, gdb *gorm.DB) (model.Category, model.Dish, model.Dish) {
	t.Helper()
	ctx := context.Background()
	w := NewDishGormRepository(gdb)

	cat := model.Category{Name: "Burgers", Description: "grill"}
	require.NoError(t, w.UpsertCategory(ctx, &cat))

	burger := model.Dish{Name: "Classic", Price: decimal.RequireFromString("9.50"), CategoryID: cat.ID, Available: true}
	fries := model.Dish{Name: "Fries", Price: decimal.RequireFromString("3.00"), CategoryID: cat.ID, Available: true}
	require.NoError(t, w.UpsertDish(ctx, &burger))
	require.NoError(t, w.UpsertDish(ctx, &fries))
	return cat, burger, fries
}

func seedClient(t *testing.T, gdb *gorm.DB, email string) model.Client {
	t.Helper()
	c := model.Client{
		FirstName:        "Ana",
		LastName:         "Lopez",
		Email:            email,
		Credential:       "x",
		Active:           true,
		RegistrationDate: time.Now(),
	}
	require.NoError(t, NewClientGormRepository(gdb).Create(context.Background(), &c))
	return c
}

func TestClientGormRepository_EmailIsCaseInsensitive(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewClientGormRepository(gdb)
	ctx := context.Background()

	c := seedClient(t, gdb, "Ana@Example.com")
	assert.Equal(t, "ana@example.com", c.Email)

	got, err := r.FindByEmail(ctx, "ANA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	ok, err := r.ExistsByEmail(ctx, " ana@EXAMPLE.com ")
	require.NoError(t, err)
	assert.True(t, ok)

	dup := model.Client{FirstName: "B", Email: "ANA@example.com", Credential: "y", RegistrationDate: time.Now()}
	err = r.Create(ctx, &dup)
	assert.ErrorIs(t, err, repo.ErrDuplicateEmail)
}

func TestClientGormRepository_FindByIDNotFound(t *testing.T) {
	gdb := dbtest.Open(t)
	_, err := NewClientGormRepository(gdb).FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestClientGormRepository_CreateOrGet(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewClientGormRepository(gdb)
	ctx := context.Background()

	first, created, err := r.CreateOrGet(ctx, model.Client{FirstName: "Ana", Email: "ana@example.com", Credential: "a", Active: true, RegistrationDate: time.Now()})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second, created, err := r.CreateOrGet(ctx, model.Client{FirstName: "Other", Email: "ANA@example.com", Credential: "b", Active: true, RegistrationDate: time.Now()})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana", second.FirstName)
}

// 接続を複数持たせて、insertが本当に並ぶようにする
func TestClientGormRepository_CreateOrGetConcurrent(t *testing.T) {
	const n = 8
	gdb := dbtest.OpenFile(t, n)
	r := NewClientGormRepository(gdb)
	ctx := context.Background()

	start := make(chan struct{})
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			c, _, err := r.CreateOrGet(ctx, model.Client{FirstName: "Ana", Email: "race@example.com", Credential: "a", Active: true, RegistrationDate: time.Now()})
			assert.NoError(t, err)
			ids[i] = c.ID
		}(i)
	}
	close(start)
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	var count int64
	require.NoError(t, gdb.Model(&model.Client{}).Where("email = ?", "race@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestClientGormRepository_NarrowUpdates(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewClientGormRepository(gdb)
	ctx := context.Background()

	c := seedClient(t, gdb, "ana@example.com")

	//別の操作で停止・パスワード変更
	require.NoError(t, r.SetActive(ctx, c.ID, false))
	require.NoError(t, r.UpdateCredential(ctx, c.ID, "rotated"))

	//古い値を持ったままプロフィールを書いても上書きしない
	stale := c
	stale.City = "Lyon"
	require.True(t, stale.Active)
	require.NoError(t, r.UpdateProfile(ctx, stale))

	got, err := r.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.City)
	assert.Equal(t, "Ana", got.FirstName)
	assert.False(t, got.Active)
	assert.Equal(t, "rotated", got.Credential)

	require.NoError(t, r.SetActive(ctx, c.ID, true))
	got, err = r.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, "Lyon", got.City)
}

func TestClientGormRepository_UpdatesRequireRow(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewClientGormRepository(gdb)
	ctx := context.Background()

	assert.ErrorIs(t, r.UpdateProfile(ctx, model.Client{ID: 12345, FirstName: "x"}), repo.ErrNotFound)
	assert.ErrorIs(t, r.UpdateCredential(ctx, 12345, "x"), repo.ErrNotFound)
	assert.ErrorIs(t, r.SetActive(ctx, 12345, false), repo.ErrNotFound)
}

func TestDishGormRepository_Lookups(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewDishGormRepository(gdb)
	ctx := context.Background()
	cat, burger, _ := seedMenu(t, gdb)

	d, err := r.FindByID(ctx, burger.ID)
	require.NoError(t, err)
	assert.Equal(t, "Classic", d.Name)
	assert.True(t, d.Price.Equal(decimal.RequireFromString("9.50")))

	_, err = r.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	byID, err := r.ListByCategoryID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	byName, err := r.ListByCategoryName(ctx, "bURGERS")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	none, err := r.ListByCategoryName(ctx, "pizza")
	require.NoError(t, err)
	assert.Empty(t, none)

	cats := NewCategoryGormRepository(gdb)
	gotCat, err := cats.FindByName(ctx, "burgers")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, gotCat.ID)
}

func TestDishGormRepository_UpsertIsIdempotent(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewDishGormRepository(gdb)
	ctx := context.Background()
	cat, burger, _ := seedMenu(t, gdb)

	again := model.Category{Name: "Burgers", Description: "new"}
	require.NoError(t, r.UpsertCategory(ctx, &again))
	assert.Equal(t, cat.ID, again.ID)

	repriced := model.Dish{Name: "Classic", Price: decimal.RequireFromString("10.00"), CategoryID: cat.ID, Available: true}
	require.NoError(t, r.UpsertDish(ctx, &repriced))
	assert.Equal(t, burger.ID, repriced.ID)

	got, err := r.FindByID(ctx, burger.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("10.00")))

	var count int64
	require.NoError(t, gdb.Model(&model.Dish{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func createOrder(t *testing.T, gdb *gorm.DB, client model.Client, at time.Time, items ...model.OrderItem) model.Order {
	t.Helper()
	ctx := context.Background()
	o := model.NewOrder(client, "1 rue A", "0600000000", "", at)
	require.NoError(t, NewOrderGormRepository(gdb).Create(ctx, &o))
	require.NoError(t, NewOrderItemGormRepository(gdb).CreateBulk(ctx, o.ID, items))
	total := model.SumSubtotals(items)
	require.NoError(t, NewOrderGormRepository(gdb).UpdateTotal(ctx, o.ID, total))
	o.Items = items
	o.TotalAmount = total
	return o
}

func TestOrderGormRepository_FindByIDWithItems(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()
	_, burger, fries := seedMenu(t, gdb)
	client := seedClient(t, gdb, "ana@example.com")

	o := createOrder(t, gdb, client, time.Now(),
		model.NewOrderItem(burger, 2),
		model.NewOrderItem(fries, 1),
	)

	got, err := r.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Classic", got.Items[0].DishName)
	assert.Equal(t, "Fries", got.Items[1].DishName)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("22.00")))
	assert.Equal(t, model.OrderStatusPending, got.Status)
	assert.Equal(t, "ana@example.com", got.ClientEmail)
	assert.Equal(t, "Ana Lopez", got.ClientFullName)

	_, err = r.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderGormRepository_ListByClientIDOrdering(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()
	_, burger, _ := seedMenu(t, gdb)
	client := seedClient(t, gdb, "ana@example.com")
	other := seedClient(t, gdb, "bob@example.com")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := createOrder(t, gdb, client, base, model.NewOrderItem(burger, 1))
	newer := createOrder(t, gdb, client, base.Add(time.Hour), model.NewOrderItem(burger, 1))
	createOrder(t, gdb, other, base, model.NewOrderItem(burger, 1))

	desc, err := r.ListByClientID(ctx, client.ID, false)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, newer.ID, desc[0].ID)
	assert.Equal(t, older.ID, desc[1].ID)
	assert.Len(t, desc[0].Items, 1)

	asc, err := r.ListByClientID(ctx, client.ID, true)
	require.NoError(t, err)
	assert.Equal(t, older.ID, asc[0].ID)

	none, err := r.ListByClientID(ctx, 4242, false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderGormRepository_ListWithFilter(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()
	_, burger, _ := seedMenu(t, gdb)
	client := seedClient(t, gdb, "ana@example.com")

	now := time.Now()
	a := createOrder(t, gdb, client, now, model.NewOrderItem(burger, 1))
	createOrder(t, gdb, client, now.Add(time.Minute), model.NewOrderItem(burger, 1))
	require.NoError(t, r.UpdateStatus(ctx, a.ID, model.OrderStatusReady))

	ready := model.OrderStatusReady
	orders, total, err := r.List(ctx, repo.OrderListFilter{Page: 1, Limit: 10, Status: &ready})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, a.ID, orders[0].ID)

	all, total, err := r.List(ctx, repo.OrderListFilter{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 1)
}

func TestOrderGormRepository_ListByClientAndPeriod(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()
	_, burger, _ := seedMenu(t, gdb)
	ana := seedClient(t, gdb, "ana@example.com")
	bob := seedClient(t, gdb, "bob@example.com")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createOrder(t, gdb, ana, base, model.NewOrderItem(burger, 1))
	mid := createOrder(t, gdb, ana, base.Add(24*time.Hour), model.NewOrderItem(burger, 1))
	createOrder(t, gdb, ana, base.Add(48*time.Hour), model.NewOrderItem(burger, 1))
	createOrder(t, gdb, bob, base.Add(24*time.Hour), model.NewOrderItem(burger, 1))

	orders, total, err := r.List(ctx, repo.OrderListFilter{Page: 1, Limit: 10, ClientID: &ana.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 3)

	from := base.Add(time.Hour)
	to := base.Add(25 * time.Hour)
	orders, total, err = r.List(ctx, repo.OrderListFilter{Page: 1, Limit: 10, ClientID: &ana.ID, From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, mid.ID, orders[0].ID)

	//期間だけ（顧客をまたぐ）
	_, total, err = r.List(ctx, repo.OrderListFilter{Page: 1, Limit: 10, From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestOrderGormRepository_UpdatesRequireRow(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()

	assert.ErrorIs(t, r.UpdateStatus(ctx, 77, model.OrderStatusReady), repo.ErrNotFound)
	assert.ErrorIs(t, r.UpdateNotes(ctx, 77, "x"), repo.ErrNotFound)
	assert.ErrorIs(t, r.UpdateTotal(ctx, 77, decimal.Zero), repo.ErrNotFound)
}

func TestOrderGormRepository_StatsByClientID(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()
	_, burger, fries := seedMenu(t, gdb)
	client := seedClient(t, gdb, "ana@example.com")

	empty, err := r.StatsByClientID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.OrderCount)
	assert.True(t, empty.TotalSpent.IsZero())
	assert.Nil(t, empty.LastOrderDate)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createOrder(t, gdb, client, base, model.NewOrderItem(burger, 2))
	createOrder(t, gdb, client, base.Add(2*time.Hour), model.NewOrderItem(fries, 1))

	stats, err := r.StatsByClientID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.OrderCount)
	assert.True(t, stats.TotalSpent.Equal(decimal.RequireFromString("22.00")), stats.TotalSpent.String())
	require.NotNil(t, stats.LastOrderDate)
	assert.True(t, stats.LastOrderDate.Equal(base.Add(2*time.Hour)))
}

func TestAuditLogGormRepository_CreateAndList(t *testing.T) {
	gdb := dbtest.Open(t)
	r := NewAuditLogGormRepository(gdb)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, model.AuditLog{Actor: "staff:1", Action: model.AuditActionUpdateOrderStatus, ResourceType: model.AuditResourceOrder, ResourceID: 5, CreatedAt: time.Now()}))
	require.NoError(t, r.Create(ctx, model.AuditLog{Actor: "client:2", Action: model.AuditActionCancelOrder, ResourceType: model.AuditResourceOrder, ResourceID: 5, CreatedAt: time.Now()}))
	require.NoError(t, r.Create(ctx, model.AuditLog{Actor: "client:2", Action: model.AuditActionCancelOrder, ResourceType: model.AuditResourceOrder, ResourceID: 6, CreatedAt: time.Now()}))

	id := int64(5)
	rt := model.AuditResourceOrder
	logs, err := r.List(ctx, repo.AuditLogFilter{ResourceType: &rt, ResourceID: &id})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logs[0].Action)
	assert.Equal(t, model.AuditActionCancelOrder, logs[1].Action)
}

func TestTxManagerGorm_RollsBackOnError(t *testing.T) {
	gdb := dbtest.Open(t)
	tm := NewTxManagerGorm(gdb)
	ctx := context.Background()
	client := seedClient(t, gdb, "ana@example.com")

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		o := model.NewOrder(client, "addr", "phone", "", time.Now())
		if err := r.Orders().Create(ctx, &o); err != nil {
			return err
		}
		_, err := r.Dishes().FindByID(ctx, 9999)
		return err
	})
	assert.ErrorIs(t, err, repo.ErrNotFound)

	var count int64
	require.NoError(t, gdb.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
