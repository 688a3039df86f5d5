package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	cachekeys "github.com/BRuslanB/OrderService/internal/cache"
	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports/mocks"
	"github.com/BRuslanB/OrderService/internal/usecase"
	"github.com/golang/mock/gomock"
)

const orderID = "order-1"

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var (
	owner    = domain.Principal{Username: "ivan", Roles: []domain.Role{domain.RoleUser}}
	stranger = domain.Principal{Username: "petr", Roles: []domain.Role{domain.RoleUser}}
	admin    = domain.Principal{Username: "root", Roles: []domain.Role{domain.RoleAdmin}}
)

func testOrder() *domain.Order {
	return &domain.Order{
		OrderID:      orderID,
		CustomerName: "ivan",
		Products:     []domain.Product{{Name: "A", Price: 100, Quantity: 2}},
		TotalPrice:   200,
		Status:       domain.StatusPending,
	}
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func newService(ctrl *gomock.Controller) (*usecase.OrderService, *mocks.MockOrderRepository, *mocks.MockResponseCache, *mocks.MockEventProducer) {
	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockResponseCache(ctrl)
	producer := mocks.NewMockEventProducer(ctrl)
	svc := usecase.NewOrderService(repo, cache, producer, noopLogger{})
	return svc, repo, cache, producer
}

func TestCreateOrder_Anonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _, _ := newService(ctrl)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.CreateOrder(context.Background(), domain.Anonymous, []domain.Product{{Name: "A", Price: 1, Quantity: 1}})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestCreateOrder_InvalidProducts_NoRepoCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _, _ := newService(ctrl)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.CreateOrder(context.Background(), owner, []domain.Product{{Name: "A", Price: 100, Quantity: 0}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateOrder_Success_InvalidatesViewsThenCachesPoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
		cache.EXPECT().InvalidateViews(gomock.Any()).Return(nil),
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	order, err := svc.CreateOrder(context.Background(), owner, []domain.Product{{Name: "A", Price: 100, Quantity: 2}})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.CustomerName != "ivan" || order.TotalPrice != 200 || order.Status != domain.StatusPending {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.OrderID == "" {
		t.Fatalf("order must get a generated id")
	}
}

func TestGetOrder_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, cache, _ := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), cachekeys.OrderKey(orderID)).Return(marshal(t, testOrder()), true)

	got, err := svc.GetOrder(context.Background(), owner, orderID)
	if err != nil || got == nil || got.OrderID != orderID {
		t.Fatalf("expected hit, got err=%v, order=%+v", err, got)
	}
}

func TestGetOrder_CacheMiss_FetchAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	o := testOrder()
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), cachekeys.OrderKey(orderID)).Return(nil, false),
		repo.EXPECT().GetByID(gomock.Any(), orderID).Return(o, nil),
		cache.EXPECT().Set(gomock.Any(), cachekeys.OrderKey(orderID), gomock.Any()).Return(nil),
	)

	got, err := svc.GetOrder(context.Background(), owner, orderID)
	if err != nil || got == nil || got.OrderID != orderID {
		t.Fatalf("expected miss path, got err=%v, order=%+v", err, got)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(nil, nil)

	_, err := svc.GetOrder(context.Background(), owner, orderID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetOrder_SoftDeleted_NotFound_NotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	o := testOrder()
	o.Deleted = true

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(o, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.GetOrder(context.Background(), owner, orderID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted order: err = %v, want ErrNotFound", err)
	}
}

func TestGetOrder_StrangerForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, cache, _ := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(marshal(t, testOrder()), true)

	_, err := svc.GetOrder(context.Background(), stranger, orderID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestGetOrder_AdminAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, cache, _ := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(marshal(t, testOrder()), true)

	if _, err := svc.GetOrder(context.Background(), admin, orderID); err != nil {
		t.Fatalf("admin must read any order: %v", err)
	}
}

func TestListOrders_NonAdminForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _, _ := newService(ctrl)

	repo.EXPECT().ListNotDeleted(gomock.Any()).Times(0)

	_, err := svc.ListOrders(context.Background(), owner, domain.OrderFilter{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestListOrders_EmptyResultNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), cachekeys.KeyAllOrders).Return(nil, false)
	repo.EXPECT().ListNotDeleted(gomock.Any()).Return([]*domain.Order{}, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	orders, err := svc.ListOrders(context.Background(), admin, domain.OrderFilter{})
	if err != nil || len(orders) != 0 {
		t.Fatalf("empty list: err=%v n=%d", err, len(orders))
	}
}

func TestListOrders_FilteredMiss_FetchAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	status := domain.StatusPending
	filter := domain.OrderFilter{Status: &status}
	key := cachekeys.ListKey(filter)

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), key).Return(nil, false),
		repo.EXPECT().ListFiltered(gomock.Any(), filter).Return([]*domain.Order{testOrder()}, nil),
		cache.EXPECT().Set(gomock.Any(), key, gomock.Any()).Return(nil),
	)

	orders, err := svc.ListOrders(context.Background(), admin, filter)
	if err != nil || len(orders) != 1 {
		t.Fatalf("filtered list: err=%v n=%d", err, len(orders))
	}
}

func TestListOrders_CacheHitSkipsRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), cachekeys.KeyAllOrders).
		Return(marshal(t, []*domain.Order{testOrder()}), true)
	repo.EXPECT().ListNotDeleted(gomock.Any()).Times(0)

	orders, err := svc.ListOrders(context.Background(), admin, domain.OrderFilter{})
	if err != nil || len(orders) != 1 {
		t.Fatalf("cache hit list: err=%v n=%d", err, len(orders))
	}
}

func TestUpdateOrder_InvalidProducts_NoSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _, _ := newService(ctrl)

	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(testOrder(), nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpdateOrder(context.Background(), owner, orderID, []domain.Product{{Name: "B", Price: 50, Quantity: 0}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateOrder_Success_RecalculatesAndRefreshesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	gomock.InOrder(
		repo.EXPECT().GetByID(gomock.Any(), orderID).Return(testOrder(), nil),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		cache.EXPECT().InvalidateViews(gomock.Any()).Return(nil),
		cache.EXPECT().Set(gomock.Any(), cachekeys.OrderKey(orderID), gomock.Any()).Return(nil),
	)

	order, err := svc.UpdateOrder(context.Background(), owner, orderID, []domain.Product{{Name: "B", Price: 50, Quantity: 1}})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if order.TotalPrice != 50 || len(order.Products) != 1 || order.Products[0].Name != "B" {
		t.Fatalf("products must be fully replaced: %+v", order)
	}
}

func TestUpdateOrder_StrangerForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _, _ := newService(ctrl)

	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(testOrder(), nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpdateOrder(context.Background(), stranger, orderID, []domain.Product{{Name: "B", Price: 50, Quantity: 1}})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateOrderStatus_PublishesEventAfterSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, producer := newService(ctrl)

	var published domain.StatusChangeEvent
	gomock.InOrder(
		repo.EXPECT().GetByID(gomock.Any(), orderID).Return(testOrder(), nil),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		producer.EXPECT().PublishStatusChange(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event domain.StatusChangeEvent) error {
				published = event
				return nil
			}),
		cache.EXPECT().InvalidateViews(gomock.Any()).Return(nil),
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	order, err := svc.UpdateOrderStatus(context.Background(), owner, orderID, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if order.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", order.Status)
	}
	if published.OldStatus != domain.StatusPending || published.NewStatus != domain.StatusConfirmed {
		t.Fatalf("event must carry the transition: %+v", published)
	}
}

func TestUpdateOrderStatus_PublishFailureDoesNotFailOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, producer := newService(ctrl)

	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(testOrder(), nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	producer.EXPECT().PublishStatusChange(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	cache.EXPECT().InvalidateViews(gomock.Any()).Return(nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	if _, err := svc.UpdateOrderStatus(context.Background(), owner, orderID, domain.StatusCancelled); err != nil {
		t.Fatalf("publish failure must not fail the committed change: %v", err)
	}
}

func TestDeleteOrder_SoftDeletesAndDropsWholeCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, cache, _ := newService(ctrl)

	gomock.InOrder(
		repo.EXPECT().GetByID(gomock.Any(), orderID).Return(testOrder(), nil),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, order *domain.Order) error {
				if !order.Deleted {
					t.Fatalf("order must be marked deleted before save")
				}
				return nil
			}),
		cache.EXPECT().InvalidateAll(gomock.Any()).Return(nil),
	)

	if err := svc.DeleteOrder(context.Background(), owner, orderID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
}

func TestDeleteOrder_AlreadyDeleted_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _, _ := newService(ctrl)

	o := testOrder()
	o.Deleted = true
	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(o, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	if err := svc.DeleteOrder(context.Background(), owner, orderID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
