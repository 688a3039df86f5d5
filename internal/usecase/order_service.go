package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BRuslanB/OrderService/internal/auth"
	"github.com/BRuslanB/OrderService/internal/cache"
	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/BRuslanB/OrderService/pkg/metrics"
)

// Проверка, что OrderService удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.OrderService = (*OrderService)(nil)

// OrderService — прикладная логика работы с заказами (без знаний о транспорте).
// Авторизация на уровне объекта: ADMIN или владелец; листинг — только ADMIN.
// Кэш хранит сериализованные ответы; точечные записи и представления
// инвалидируются по-разному (см. internal/cache).
type OrderService struct {
	repo     ports.OrderRepository // прямой доступ к хранилищу
	cache    ports.ResponseCache   // прямой доступ к кэшу ответов
	producer ports.EventProducer   // события смены статуса (может быть nil)
	log      ports.Logger          // прямой доступ к логгеру
}

// NewOrderService — DI-конструктор.
func NewOrderService(
	repo ports.OrderRepository,
	responseCache ports.ResponseCache,
	producer ports.EventProducer,
	log ports.Logger,
) *OrderService {
	return &OrderService{
		repo:     repo,
		cache:    responseCache,
		producer: producer,
		log:      log,
	}
}

// CreateOrder — создать заказ от имени вызывающего.
// Владелец заказа — сам вызывающий; доступно любому аутентифицированному.
func (s *OrderService) CreateOrder(ctx context.Context, caller domain.Principal, products []domain.Product) (*domain.Order, error) {
	// Аноним сюда попадать не должен: маршрут закрыт на транспортной границе.
	if !caller.IsAuthenticated() {
		metrics.Failure("create")
		return nil, fmt.Errorf("%w: create order", domain.ErrNotAuthenticated)
	}

	order, err := domain.NewOrder(caller.Username, products)
	if err != nil {
		metrics.Failure("create")
		return nil, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.log.Errorf(ctx, "repo.Create failed order_id=%s err=%v", order.OrderID, err)
		metrics.Failure("create")
		return nil, err
	}

	// Новый заказ делает все представления устаревшими; точечную запись кладём сразу.
	s.refreshCaches(ctx, order)

	s.log.Infof(ctx, "order created order_id=%s customer=%s total=%.2f", order.OrderID, order.CustomerName, order.TotalPrice)
	metrics.Success("create")
	return order, nil
}

// GetOrder — получить заказ по id: сначала из кэша, при промахе — из БД с записью в кэш.
// Мягко удалённый или отсутствующий заказ неразличимы для клиента (NotFound).
// Авторизация выполняется после загрузки: правило «владелец или ADMIN» требует сам заказ.
func (s *OrderService) GetOrder(ctx context.Context, caller domain.Principal, orderID string) (*domain.Order, error) {
	order, err := s.fetchOrder(ctx, orderID)
	if err != nil {
		metrics.Failure("get")
		return nil, err
	}
	if order == nil || order.Deleted {
		metrics.Failure("get")
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}

	if !auth.IsAuthorized(caller, order) {
		metrics.Failure("get")
		return nil, fmt.Errorf("%w: order %s", domain.ErrForbidden, orderID)
	}

	metrics.Success("get")
	return order, nil
}

// ListOrders — список живых заказов с необязательным фильтром. Только ADMIN.
// Пустой результат не кэшируется: негативные ответы дёшево пересчитать,
// а устаревший пустой список вводит в заблуждение.
func (s *OrderService) ListOrders(ctx context.Context, caller domain.Principal, filter domain.OrderFilter) ([]*domain.Order, error) {
	if !caller.IsAdmin() {
		metrics.Failure("list")
		return nil, fmt.Errorf("%w: list orders", domain.ErrForbidden)
	}

	key := cache.ListKey(filter)
	if payload, found := s.cache.Get(ctx, key); found {
		var orders []*domain.Order
		if err := json.Unmarshal(payload, &orders); err == nil {
			s.log.Infof(ctx, "cache hit for %s", key)
			metrics.Success("list")
			return orders, nil
		}
		// Битая запись в кэше — идём в БД, запись перезапишется ниже.
		s.log.Warnf(ctx, "corrupted cache entry key=%s", key)
	}

	start := time.Now()
	var orders []*domain.Order
	var err error
	if filter.IsEmpty() {
		orders, err = s.repo.ListNotDeleted(ctx)
	} else {
		orders, err = s.repo.ListFiltered(ctx, filter)
	}
	if err != nil {
		s.log.Errorf(ctx, "list orders failed key=%s err=%v", key, err)
		metrics.Failure("list")
		return nil, err
	}

	if len(orders) > 0 {
		if payload, mErr := json.Marshal(orders); mErr == nil {
			if setErr := s.cache.Set(ctx, key, payload); setErr != nil {
				s.log.Warnf(ctx, "cache.Set failed key=%s err=%v", key, setErr)
			}
		}
	}

	s.log.Infof(ctx, "db list key=%s n=%d took=%s", key, len(orders), time.Since(start))
	metrics.Success("list")
	return orders, nil
}

// UpdateOrder — полная замена позиций заказа с пересчётом стоимости.
// Читаем из БД, а не из кэша: мутация должна опираться на источник истины.
func (s *OrderService) UpdateOrder(ctx context.Context, caller domain.Principal, orderID string, products []domain.Product) (*domain.Order, error) {
	order, err := s.loadForMutation(ctx, caller, orderID, "update")
	if err != nil {
		return nil, err
	}

	if err := order.ReplaceProducts(products); err != nil {
		metrics.Failure("update")
		return nil, err
	}

	if err := s.repo.Save(ctx, order); err != nil {
		s.log.Errorf(ctx, "repo.Save failed order_id=%s err=%v", orderID, err)
		metrics.Failure("update")
		return nil, err
	}

	s.refreshCaches(ctx, order)

	s.log.Infof(ctx, "order updated order_id=%s total=%.2f", order.OrderID, order.TotalPrice)
	metrics.Success("update")
	return order, nil
}

// UpdateOrderStatus — перевод заказа в новый статус.
// Событие о смене публикуется после коммита; сбой публикации не откатывает
// уже сохранённый статус — это деградация доставки, а не операции.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, caller domain.Principal, orderID string, newStatus domain.Status) (*domain.Order, error) {
	order, err := s.loadForMutation(ctx, caller, orderID, "status")
	if err != nil {
		return nil, err
	}

	previous := order.SetStatus(newStatus)

	if err := s.repo.Save(ctx, order); err != nil {
		s.log.Errorf(ctx, "repo.Save failed order_id=%s err=%v", orderID, err)
		metrics.Failure("status")
		return nil, err
	}

	if s.producer != nil {
		event := domain.StatusChangeEvent{
			OrderID:    order.OrderID,
			OldStatus:  previous,
			NewStatus:  order.Status,
			OccurredAt: order.UpdatedAt,
		}
		if pubErr := s.producer.PublishStatusChange(ctx, event); pubErr != nil {
			s.log.Warnf(ctx, "status event publish failed order_id=%s err=%v", orderID, pubErr)
		}
	}

	s.refreshCaches(ctx, order)

	s.log.Infof(ctx, "order status changed order_id=%s %s->%s", order.OrderID, previous, order.Status)
	metrics.Success("status")
	return order, nil
}

// DeleteOrder — мягкое удаление. После него заказ невидим для чтений,
// поэтому сбрасываем кэш целиком, включая точечную запись.
func (s *OrderService) DeleteOrder(ctx context.Context, caller domain.Principal, orderID string) error {
	order, err := s.loadForMutation(ctx, caller, orderID, "delete")
	if err != nil {
		return err
	}

	order.MarkDeleted()

	if err := s.repo.Save(ctx, order); err != nil {
		s.log.Errorf(ctx, "repo.Save failed order_id=%s err=%v", orderID, err)
		metrics.Failure("delete")
		return err
	}

	if invErr := s.cache.InvalidateAll(ctx); invErr != nil {
		s.log.Warnf(ctx, "cache.InvalidateAll failed err=%v", invErr)
	}

	s.log.Infof(ctx, "order deleted order_id=%s", order.OrderID)
	metrics.Success("delete")
	return nil
}

// loadForMutation — общий пролог мутаций: загрузка из БД, NotFound для
// отсутствующих и удалённых, авторизация «владелец или ADMIN».
func (s *OrderService) loadForMutation(ctx context.Context, caller domain.Principal, orderID, op string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed order_id=%s err=%v", orderID, err)
		metrics.Failure(op)
		return nil, err
	}
	if order == nil || order.Deleted {
		metrics.Failure(op)
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	if !auth.IsAuthorized(caller, order) {
		metrics.Failure(op)
		return nil, fmt.Errorf("%w: order %s", domain.ErrForbidden, orderID)
	}
	return order, nil
}

// fetchOrder — чтение заказа через кэш: попадание в точечную запись
// избавляет от похода в БД; промах дочитывается из БД и кэшируется.
func (s *OrderService) fetchOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	key := cache.OrderKey(orderID)
	if payload, found := s.cache.Get(ctx, key); found {
		var order domain.Order
		if err := json.Unmarshal(payload, &order); err == nil {
			s.log.Infof(ctx, "cache hit for order=%s", orderID)
			return &order, nil
		}
		s.log.Warnf(ctx, "corrupted cache entry key=%s", key)
	}

	start := time.Now()
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed order_id=%s err=%v", orderID, err)
		return nil, err
	}

	if order != nil && !order.Deleted {
		s.cachePoint(ctx, order)
	}

	s.log.Infof(ctx, "db fetch order_id=%s took=%s", orderID, time.Since(start))
	return order, nil
}

// refreshCaches — порядок после мутации: сначала сброс представлений,
// затем свежая точечная запись. Обратный порядок мог бы оставить
// представления со старой версией поверх уже обновлённой точки.
func (s *OrderService) refreshCaches(ctx context.Context, order *domain.Order) {
	if err := s.cache.InvalidateViews(ctx); err != nil {
		s.log.Warnf(ctx, "cache.InvalidateViews failed err=%v", err)
	}
	s.cachePoint(ctx, order)
}

func (s *OrderService) cachePoint(ctx context.Context, order *domain.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		s.log.Warnf(ctx, "marshal order for cache failed order_id=%s err=%v", order.OrderID, err)
		return
	}
	if err := s.cache.Set(ctx, cache.OrderKey(order.OrderID), payload); err != nil {
		s.log.Warnf(ctx, "cache.Set failed order_id=%s err=%v", order.OrderID, err)
	}
}
