package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"darkitchen/internal/domain/model"
	repo "darkitchen/internal/repository"
	"darkitchen/internal/repository/mocks"
	"darkitchen/internal/usecase"
	auth "darkitchen/internal/usecase/auth_usecase"
	"darkitchen/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)

func money(s string) model.Money { return decimal.RequireFromString(s) }

func moneyEq(want string) interface{} {
	return mock.MatchedBy(func(m model.Money) bool { return m.Equal(money(want)) })
}

type orderFixture struct {
	tm      *mocks.TxManager
	repos   *mocks.TxRepos
	orders  *mocks.OrderRepository
	clients *mocks.ClientRepository
	uc      *usecase.OrderUsecase
	logs    *test.Hook
}

func newOrderFixture(entropy []byte) *orderFixture {
	repos := &mocks.TxRepos{
		ClientRepo:    new(mocks.ClientRepository),
		DishRepo:      new(mocks.DishRepository),
		OrderRepo:     new(mocks.OrderRepository),
		OrderItemRepo: new(mocks.OrderItemRepository),
		AuditLogRepo:  new(mocks.AuditLogRepository),
	}
	tm := &mocks.TxManager{Repos: repos}
	tm.On("WithinTx", mock.Anything).Return(nil)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	orders := new(mocks.OrderRepository)
	clients := new(mocks.ClientRepository)
	clock := fixedClock{t: testNow}
	resolver := usecase.NewClientResolver(auth.PlainCredentialHasher{}, bytes.NewReader(entropy), clock)

	return &orderFixture{
		tm:      tm,
		repos:   repos,
		orders:  orders,
		clients: clients,
		uc:      usecase.NewOrderUsecase(tm, orders, clients, resolver, validator.NewInputValidator(), clock, logger),
		logs:    hook,
	}
}

func checkoutInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		Client: usecase.ClientInfo{
			FullName:        "Ana Lopez",
			Email:           "Ana@Example.com",
			PhoneNumber:     "0600000000",
			DeliveryAddress: "1 rue A",
		},
		Items: []usecase.CheckoutLine{
			{DishID: 1, Quantity: 2, Price: money("1.00")},
			{DishID: 2, Quantity: 1, Price: money("1.00")},
		},
		TotalAmount: money("3.00"),
	}
}

func TestCheckout_TotalComesFromCatalogPrices(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()
	existing := model.Client{ID: 9, FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com"}

	f.clients.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(true, nil)
	f.repos.ClientRepo.On("FindByEmail", mock.Anything, "ana@example.com").Return(existing, nil)
	f.repos.OrderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Order).ID = 100 }).
		Return(nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Dish{ID: 1, Name: "Tacos", Price: money("8.50")}, nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Dish{ID: 2, Name: "Salad", Price: money("5.00")}, nil)
	f.repos.OrderItemRepo.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 && items[0].Price.Equal(money("8.50")) && items[1].DishName == "Salad"
	})).Return(nil)
	f.repos.OrderRepo.On("UpdateTotal", mock.Anything, int64(100), moneyEq("22.00")).Return(nil)

	out, err := f.uc.Checkout(ctx, checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, int64(100), out.OrderID)
	assert.Equal(t, int64(9), out.ClientID)
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.True(t, out.TotalAmount.Equal(money("22.00")))
	require.Len(t, out.Items, 2)
	assert.True(t, out.Items[0].Subtotal.Equal(money("17.00")))
	assert.Equal(t, "ana@example.com", out.ClientEmail)
	assert.Equal(t, "Ana Lopez", out.ClientFullName)
	assert.Equal(t, testNow, out.OrderDate)

	//既存顧客は作り直さない
	f.repos.ClientRepo.AssertNotCalled(t, "CreateOrGet", mock.Anything, mock.Anything)
	f.repos.ClientRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	f.repos.OrderRepo.AssertExpectations(t)
	f.repos.OrderItemRepo.AssertExpectations(t)

	//宣言された合計との差はログに残す
	require.NotEmpty(t, f.logs.AllEntries())
	assert.Equal(t, "declared total differs from computed total", f.logs.LastEntry().Message)
}

func TestCheckout_UnknownDishAborts(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()

	f.clients.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(true, nil)
	f.repos.ClientRepo.On("FindByEmail", mock.Anything, "ana@example.com").Return(model.Client{ID: 9}, nil)
	f.repos.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Dish{ID: 1, Price: money("8.50")}, nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Dish{}, repo.ErrNotFound)

	_, err := f.uc.Checkout(ctx, checkoutInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 404, he.Status)
	assert.Equal(t, "dish 2 not found", he.Message)

	f.repos.OrderItemRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	f.repos.OrderRepo.AssertNotCalled(t, "UpdateTotal", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_NewClientGetsTemporaryCredential(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x12}, 16)
	want, err := auth.GenerateTemporaryCredential(bytes.NewReader(entropy))
	require.NoError(t, err)

	f := newOrderFixture(entropy)
	ctx := context.Background()

	f.clients.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(false, nil)
	f.repos.ClientRepo.On("FindByEmail", mock.Anything, "ana@example.com").Return(model.Client{}, repo.ErrNotFound)
	f.repos.ClientRepo.On("CreateOrGet", mock.Anything, mock.MatchedBy(func(c model.Client) bool {
		return c.FirstName == "Ana" &&
			c.LastName == "Lopez" &&
			c.Email == "ana@example.com" &&
			c.Credential == want &&
			c.Address == "1 rue A" &&
			c.Active &&
			c.RegistrationDate.Equal(testNow)
	})).Return(model.Client{ID: 33, FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com"}, true, nil)
	f.repos.OrderRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Order).ID = 5 }).
		Return(nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, mock.Anything).Return(model.Dish{ID: 1, Price: money("2.00")}, nil)
	f.repos.OrderItemRepo.On("CreateBulk", mock.Anything, int64(5), mock.Anything).Return(nil)
	f.repos.OrderRepo.On("UpdateTotal", mock.Anything, int64(5), moneyEq("6.00")).Return(nil)

	out, err := f.uc.Checkout(ctx, checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, int64(33), out.ClientID)
	f.repos.ClientRepo.AssertExpectations(t)
}

func TestCheckout_SuppliedPasswordIsUsed(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()
	in := checkoutInput()
	in.Client.FullName = "Cher"
	in.Client.Password = "hunter22"

	f.clients.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
	f.repos.ClientRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(model.Client{}, repo.ErrNotFound)
	f.repos.ClientRepo.On("CreateOrGet", mock.Anything, mock.MatchedBy(func(c model.Client) bool {
		return c.FirstName == "Cher" && c.LastName == "" && c.Credential == "hunter22"
	})).Return(model.Client{ID: 1}, true, nil)
	f.repos.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, mock.Anything).Return(model.Dish{Price: money("1.00")}, nil)
	f.repos.OrderItemRepo.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repos.OrderRepo.On("UpdateTotal", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Checkout(ctx, in)
	require.NoError(t, err)
	f.repos.ClientRepo.AssertExpectations(t)
}

func TestCheckout_Validation(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()

	cases := map[string]func(in *usecase.CheckoutInput){
		"no items":      func(in *usecase.CheckoutInput) { in.Items = nil },
		"zero quantity": func(in *usecase.CheckoutInput) { in.Items[0].Quantity = 0 },
		"bad dish id":   func(in *usecase.CheckoutInput) { in.Items[1].DishID = 0 },
		"bad email":     func(in *usecase.CheckoutInput) { in.Client.Email = "nope" },
		"no name":       func(in *usecase.CheckoutInput) { in.Client.FullName = " " },
		"no address":    func(in *usecase.CheckoutInput) { in.Client.DeliveryAddress = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := checkoutInput()
			mutate(&in)
			_, err := f.uc.Checkout(ctx, in)
			assert.ErrorIs(t, err, usecase.ErrValidation)
		})
	}
	f.tm.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestCheckout_PersistenceErrorIsInternal(t *testing.T) {
	t.Run("before tx", func(t *testing.T) {
		f := newOrderFixture(nil)
		f.clients.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, errors.New("connection reset"))

		_, err := f.uc.Checkout(context.Background(), checkoutInput())
		assert.ErrorIs(t, err, usecase.ErrInternal)
		f.tm.AssertNotCalled(t, "WithinTx", mock.Anything)
	})

	t.Run("in tx", func(t *testing.T) {
		f := newOrderFixture(nil)
		f.clients.On("ExistsByEmail", mock.Anything, mock.Anything).Return(true, nil)
		f.repos.ClientRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(model.Client{}, errors.New("connection reset"))

		_, err := f.uc.Checkout(context.Background(), checkoutInput())
		assert.ErrorIs(t, err, usecase.ErrInternal)
	})
}

// トランザクション中かどうかを記録するハッシュ
type txAwareHasher struct {
	inTx       *bool
	calls      int
	hashedInTx bool
}

func (h *txAwareHasher) Hash(plain string) (string, error) {
	h.calls++
	if *h.inTx {
		h.hashedInTx = true
	}
	return "hashed:" + plain, nil
}

func TestCheckout_HashesOutsideTransaction(t *testing.T) {
	inTx := false
	repos := &mocks.TxRepos{
		ClientRepo:    new(mocks.ClientRepository),
		DishRepo:      new(mocks.DishRepository),
		OrderRepo:     new(mocks.OrderRepository),
		OrderItemRepo: new(mocks.OrderItemRepository),
	}
	tm := &mocks.TxManager{Repos: repos}
	tm.On("WithinTx", mock.Anything).Run(func(mock.Arguments) { inTx = true }).Return(nil)

	clients := new(mocks.ClientRepository)
	hasher := &txAwareHasher{inTx: &inTx}
	clock := fixedClock{t: testNow}
	logger, _ := test.NewNullLogger()
	uc := usecase.NewOrderUsecase(tm, new(mocks.OrderRepository), clients,
		usecase.NewClientResolver(hasher, bytes.NewReader(nil), clock),
		validator.NewInputValidator(), clock, logger)

	in := checkoutInput()
	in.Client.Password = "hunter22"
	clients.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(false, nil)
	repos.ClientRepo.On("FindByEmail", mock.Anything, "ana@example.com").Return(model.Client{}, repo.ErrNotFound)
	repos.ClientRepo.On("CreateOrGet", mock.Anything, mock.MatchedBy(func(c model.Client) bool {
		return c.Credential == "hashed:hunter22"
	})).Return(model.Client{ID: 3}, true, nil)
	repos.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.DishRepo.On("FindByID", mock.Anything, mock.Anything).Return(model.Dish{Price: money("1.00")}, nil)
	repos.OrderItemRepo.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repos.OrderRepo.On("UpdateTotal", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, inTx)
	assert.Equal(t, 1, hasher.calls)
	assert.False(t, hasher.hashedInTx)
	repos.ClientRepo.AssertExpectations(t)

	//既存顧客ならハッシュ化しない
	hasher.calls = 0
	inTx = false
	clients.On("ExistsByEmail", mock.Anything, "known@example.com").Return(true, nil)
	repos.ClientRepo.On("FindByEmail", mock.Anything, "known@example.com").Return(model.Client{ID: 4}, nil)
	in.Client.Email = "known@example.com"
	_, err = uc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 0, hasher.calls)
}

func sampleOrders() []model.Order {
	mk := func(id int64, status model.OrderStatus, total string, at time.Time) model.Order {
		return model.Order{ID: id, ClientID: 9, Status: status, TotalAmount: money(total), OrderDate: at}
	}
	//新しい順
	return []model.Order{
		mk(4, model.OrderStatusPending, "10.00", testNow.Add(4*time.Hour)),
		mk(3, model.OrderStatusDelivered, "30.00", testNow.Add(3*time.Hour)),
		mk(2, model.OrderStatusPending, "10.00", testNow.Add(2*time.Hour)),
		mk(1, model.OrderStatusCancelled, "20.00", testNow.Add(time.Hour)),
	}
}

func ids(outs []usecase.OrderOutput) []int64 {
	res := make([]int64, 0, len(outs))
	for _, o := range outs {
		res = append(res, o.OrderID)
	}
	return res
}

func TestListClientOrders_StatusFilter(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()
	f.clients.On("ExistsByID", mock.Anything, int64(9)).Return(true, nil)
	f.orders.On("ListByClientID", mock.Anything, int64(9), false).Return(sampleOrders(), nil)

	for _, token := range []string{"", "ALL", "tous", "TOUS"} {
		outs, err := f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, Status: token})
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 3, 2, 1}, ids(outs), token)
	}

	for _, token := range []string{"PENDING", "pending", "EN_ATTENTE", "en_attente"} {
		outs, err := f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, Status: token})
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 2}, ids(outs), token)
	}

	outs, err := f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(outs))

	outs, err = f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, Status: "SHIPPED"})
	require.NoError(t, err)
	assert.Empty(t, outs)
}

func TestListClientOrders_Sorting(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()
	asc := sampleOrders()
	for i, j := 0, len(asc)-1; i < j; i, j = i+1, j-1 {
		asc[i], asc[j] = asc[j], asc[i]
	}
	f.clients.On("ExistsByID", mock.Anything, int64(9)).Return(true, nil)
	f.orders.On("ListByClientID", mock.Anything, int64(9), false).Return(sampleOrders(), nil)
	f.orders.On("ListByClientID", mock.Anything, int64(9), true).Return(asc, nil)

	outs, err := f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, SortBy: "createdAt_asc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(outs))

	//合計が同じものは日付順を保つ
	outs, err = f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, SortBy: "total_asc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 1, 3}, ids(outs))

	outs, err = f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, SortBy: "total_desc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 4, 2}, ids(outs))
}

func TestListClientOrders_DateRangeIsInert(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()
	f.clients.On("ExistsByID", mock.Anything, int64(9)).Return(true, nil)
	f.orders.On("ListByClientID", mock.Anything, int64(9), false).Return(sampleOrders(), nil)

	from := testNow.Add(100 * time.Hour)
	outs, err := f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9, StartDate: &from, EndDate: &from})
	require.NoError(t, err)
	assert.Len(t, outs, 4)
}

func TestListClientOrders_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown client", func(t *testing.T) {
		f := newOrderFixture(nil)
		f.clients.On("ExistsByID", mock.Anything, int64(404)).Return(false, nil)
		_, err := f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 404})
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("storage failure is logged and wrapped", func(t *testing.T) {
		f := newOrderFixture(nil)
		f.clients.On("ExistsByID", mock.Anything, int64(9)).Return(true, nil)
		f.orders.On("ListByClientID", mock.Anything, int64(9), false).Return(nil, errors.New("boom"))

		_, err := f.uc.ListClientOrders(ctx, usecase.ListClientOrdersInput{ClientID: 9})
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrInternal)
		assert.Contains(t, err.Error(), "list orders of client 9")

		require.NotNil(t, f.logs.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, f.logs.LastEntry().Level)
	})
}

func TestGetOrder(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID: 1, Status: model.OrderStatusReady,
		Items: []model.OrderItem{{DishID: 3, DishName: "Soup", Price: money("4.25"), Quantity: 2}},
	}, nil)
	f.orders.On("FindByID", mock.Anything, int64(2)).Return(model.Order{}, repo.ErrNotFound)

	out, err := f.uc.GetOrder(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Subtotal.Equal(money("8.50")))

	_, err = f.uc.GetOrder(ctx, 2)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestCancel_Matrix(t *testing.T) {
	ctx := context.Background()

	for _, from := range []model.OrderStatus{
		model.OrderStatusReady,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	} {
		t.Run(string(from), func(t *testing.T) {
			f := newOrderFixture(nil)
			f.repos.OrderRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: from}, nil)

			_, err := f.uc.Cancel(ctx, usecase.ActorPublic, 1, "late")
			assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, 409, he.Status)
			assert.Equal(t, "only PENDING or PREPARING orders can be cancelled", he.Message)
			f.repos.OrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	for _, from := range []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPreparing} {
		t.Run(string(from), func(t *testing.T) {
			f := newOrderFixture(nil)
			f.repos.OrderRepo.On("FindByID", mock.Anything, int64(1)).
				Return(model.Order{ID: 1, Status: from, Notes: "no onions"}, nil)
			f.repos.OrderRepo.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusCancelled).Return(nil)
			f.repos.OrderRepo.On("UpdateNotes", mock.Anything, int64(1),
				"no onions\nCancelled on 2024-06-01 18:30:00 — Reason: changed my mind").Return(nil)
			f.repos.AuditLogRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
				return l.Action == model.AuditActionCancelOrder && l.ResourceID == 1 &&
					strings.Contains(l.BeforeJSON, string(from))
			})).Return(nil)

			out, err := f.uc.Cancel(ctx, usecase.ActorPublic, 1, "changed my mind")
			require.NoError(t, err)
			assert.Equal(t, model.OrderStatusCancelled, out.Status)
			assert.True(t, strings.HasPrefix(out.Notes, "no onions\n"))
			f.repos.OrderRepo.AssertExpectations(t)
			f.repos.AuditLogRepo.AssertExpectations(t)
		})
	}

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderFixture(nil)
		f.repos.OrderRepo.On("FindByID", mock.Anything, int64(8)).Return(model.Order{}, repo.ErrNotFound)
		_, err := f.uc.Cancel(ctx, usecase.ActorPublic, 8, "")
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}

func TestReorder_UsesCurrentPrices(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()

	src := model.Order{
		ID: 7, ClientID: 9, Status: model.OrderStatusDelivered,
		DeliveryAddress: "1 rue A", PhoneNumber: "0600",
		Items: []model.OrderItem{{DishID: 1, DishName: "Old name", Price: money("10.00"), Quantity: 2}},
	}
	f.repos.OrderRepo.On("FindByID", mock.Anything, int64(7)).Return(src, nil)
	f.repos.ClientRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Client{ID: 9, FirstName: "Ana", Email: "ana@example.com"}, nil)
	f.repos.OrderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.Status == model.OrderStatusPending && o.Notes == "Reordered from order #7" &&
			o.DeliveryAddress == "1 rue A" && o.PhoneNumber == "0600"
	})).Run(func(args mock.Arguments) { args.Get(1).(*model.Order).ID = 8 }).Return(nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Dish{ID: 1, Name: "New name", Price: money("12.00")}, nil)
	f.repos.OrderItemRepo.On("CreateBulk", mock.Anything, int64(8), mock.Anything).Return(nil)
	f.repos.OrderRepo.On("UpdateTotal", mock.Anything, int64(8), moneyEq("24.00")).Return(nil)
	f.repos.AuditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Reorder(ctx, usecase.ActorPublic, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.OrderID)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Price.Equal(money("12.00")))
	assert.Equal(t, "New name", out.Items[0].DishName)

	//元注文のスナップショットは変わらない
	assert.True(t, src.Items[0].Price.Equal(money("10.00")))
	f.repos.OrderRepo.AssertExpectations(t)
}

func TestReorder_MissingDish(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()

	f.repos.OrderRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, ClientID: 9, Items: []model.OrderItem{{DishID: 99, Quantity: 1}},
	}, nil)
	f.repos.ClientRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Client{ID: 9}, nil)
	f.repos.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.repos.DishRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Dish{}, repo.ErrNotFound)

	_, err := f.uc.Reorder(ctx, usecase.ActorPublic, 7)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	f.repos.OrderItemRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestClientExists(t *testing.T) {
	f := newOrderFixture(nil)
	ctx := context.Background()
	f.clients.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(true, nil)

	ok, err := f.uc.ClientExists(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.uc.ClientExists(ctx, " ")
	assert.ErrorIs(t, err, usecase.ErrValidation)
}
