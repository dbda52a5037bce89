package usecase

import (
	"context"
	"fmt"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
	"pizza-service/internal/dto/request"
	"pizza-service/internal/dto/response"
	"pizza-service/pkg/metrics"
	"pizza-service/pkg/queue"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

const (
	ordersPerPage = 10

	msgAddMenuDenied = "unable to add menu item"
	msgEmptyOrder    = "order must contain at least one item"
	msgUnknownStore  = "unknown store"
)

// OrderEventPublisher receives fulfilled orders. *queue.Publisher satisfies it.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event queue.OrderCreatedEvent) error
}

type OrderService interface {
	Menu(ctx context.Context) ([]response.MenuItemResponse, error)
	AddMenuItem(ctx context.Context, actor *entity.User, req *request.MenuItemRequest) ([]response.MenuItemResponse, error)
	Orders(ctx context.Context, actor *entity.User, page int) (*response.OrderHistoryResponse, error)
	Create(ctx context.Context, actor *entity.User, req *request.CreateOrderRequest) (*response.CreateOrderResponse, error)
}

type orderService struct {
	menu      repository.MenuRepository
	orders    repository.OrderRepository
	stores    repository.StoreRepository
	factory   FactoryClient
	publisher OrderEventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewOrderService(repo *repository.Repository, deps Dependencies, log *zap.Logger) OrderService {
	return &orderService{
		menu:      repo.Menu,
		orders:    repo.Order,
		stores:    repo.Store,
		factory:   deps.Factory,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		log:       log,
	}
}

func (s *orderService) Menu(ctx context.Context) ([]response.MenuItemResponse, error) {
	items, err := s.menu.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get menu: %w", err)
	}
	return response.MenuToResponse(items), nil
}

func (s *orderService) AddMenuItem(ctx context.Context, actor *entity.User, req *request.MenuItemRequest) ([]response.MenuItemResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewAuthorizationError(msgAddMenuDenied)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(utils.FormatValidationErrors(errs))
	}

	item := &entity.MenuItem{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	}
	if err := s.menu.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("add menu item: %w", err)
	}

	s.log.Info("Menu item added", zap.Int64("menu_id", item.ID), zap.String("title", item.Title))

	return s.Menu(ctx)
}

// Orders returns the diner's order history, 1-based pages.
func (s *orderService) Orders(ctx context.Context, actor *entity.User, page int) (*response.OrderHistoryResponse, error) {
	if page < 1 {
		page = 1
	}

	orders, err := s.orders.FindByDiner(ctx, actor.ID, ordersPerPage, utils.CalculateOffset(page, ordersPerPage))
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	resp := &response.OrderHistoryResponse{
		DinerID: actor.ID,
		Orders:  make([]response.OrderResponse, 0, len(orders)),
		Page:    page,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, response.OrderToResponse(o))
	}
	return resp, nil
}

func (s *orderService) Create(ctx context.Context, actor *entity.User, req *request.CreateOrderRequest) (*response.CreateOrderResponse, error) {
	// 1. Validate shape
	if len(req.Items) == 0 {
		return nil, utils.NewValidationError(msgEmptyOrder)
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(utils.FormatValidationErrors(errs))
	}

	// 2. Every menu item must exist
	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.MenuID)
	}
	known, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check menu items: %w", err)
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, utils.NewValidationError(fmt.Sprintf("unknown menu item %d", id))
		}
	}

	// 3. Store must belong to the franchise
	store, err := s.stores.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("check store: %w", err)
	}
	if store == nil || store.FranchiseID != req.FranchiseID {
		return nil, utils.NewValidationError(msgUnknownStore)
	}

	// 4. Persist
	order := &entity.Order{
		DinerID:     actor.ID,
		FranchiseID: req.FranchiseID,
		StoreID:     req.StoreID,
		Date:        time.Now().UTC(),
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, entity.OrderItem{
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// 5. Factory round trip
	start := time.Now()
	receipt, err := s.factory.Fulfill(ctx, actor, order)
	latency := time.Since(start)

	if err != nil {
		s.metrics.RecordPizzaPurchase(ctx, false, latency, 0, 0)
		s.log.Error("Order not fulfilled",
			zap.Error(err),
			zap.Int64("order_id", order.ID),
			zap.Duration("latency", latency),
		)
		return nil, err
	}

	s.metrics.RecordPizzaPurchase(ctx, true, latency, len(order.Items), order.Revenue())
	s.publish(ctx, order)

	return &response.CreateOrderResponse{
		Order:                response.OrderToResponse(order),
		FollowLinkToEndChaos: receipt.ReportURL,
		JWT:                  receipt.JWT,
	}, nil
}

// publish is best effort; the order is already fulfilled.
func (s *orderService) publish(ctx context.Context, order *entity.Order) {
	if s.publisher == nil {
		return
	}

	event := queue.OrderCreatedEvent{
		OrderID:     order.ID,
		DinerID:     order.DinerID,
		FranchiseID: order.FranchiseID,
		StoreID:     order.StoreID,
		ItemCount:   len(order.Items),
		Revenue:     order.Revenue(),
		CreatedAt:   order.Date,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.log.Warn("Failed to publish order event", zap.Error(err), zap.Int64("order_id", order.ID))
	}
}
