package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swara2402/Trenzy/pkg/models"
)

// Validation errors, raised before any storage call.
var (
	ErrMissingUser    = errors.New("user id is required")
	ErrEmptyCart      = errors.New("cannot create an order from an empty cart")
	ErrInvalidAddress = errors.New("address is missing required fields")
	ErrInvalidPayment = errors.New("unknown payment method")
)

// Lifecycle errors.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("illegal order status transition")
)

// Sentinels a Repository implementation returns so the service can react to
// unique-index conflicts and concurrent status changes without knowing the
// storage engine.
var (
	ErrDuplicateOrderID        = errors.New("order id already exists")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrStatusConflict          = errors.New("order status changed concurrently")
)

// Repository is the persistence boundary for orders. Lookups that find
// nothing return (nil, nil); storage failures come back wrapped, never as
// raw driver errors.
type Repository interface {
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByUser(ctx context.Context, userID string) ([]models.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus) error
}

// Service turns cart snapshots into persisted, status-tracked orders and
// drives the order lifecycle over them.
type Service struct {
	repo       Repository
	generateID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:       repo,
		generateID: models.GenerateOrderID,
	}
}

// createAttempts bounds order-id regeneration when the storage unique index
// reports a collision.
const createAttempts = 3

// CreateOrder validates the checkout input, snapshots the cart lines, and
// persists a new pending order. The total is recomputed here from the line
// snapshots; a client-sent total is never trusted. idempotencyKey may be
// empty; when present, resubmitting the same key returns the order the first
// submission created instead of a duplicate.
func (s *Service) CreateOrder(ctx context.Context, userID string, lines []models.CartLine, address models.Address, payment models.PaymentMethod, idempotencyKey string) (*models.Order, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if missing := address.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, strings.Join(missing, ", "))
	}
	if !payment.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayment, payment)
	}

	items := make([]models.OrderLineSnapshot, 0, len(lines))
	var total float64
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		snapshot := models.SnapshotLine(line)
		items = append(items, snapshot)
		total += snapshot.Subtotal
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		order := &models.Order{
			UserID:         userID,
			Items:          items,
			TotalPrice:     total,
			Address:        address,
			PaymentMethod:  payment,
			Status:         models.StatusPending,
			OrderID:        s.generateID(),
			IdempotencyKey: idempotencyKey,
		}

		created, err := s.repo.Insert(ctx, order)
		if err == nil {
			return created, nil
		}
		if idempotencyKey != "" && errors.Is(err, ErrDuplicateIdempotencyKey) {
			// A previous submission of this checkout attempt already went
			// through; hand back the order it created.
			existing, findErr := s.repo.FindByIdempotencyKey(ctx, idempotencyKey)
			if findErr != nil {
				return nil, findErr
			}
			if existing == nil {
				return nil, err
			}
			return existing, nil
		}
		if errors.Is(err, ErrDuplicateOrderID) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("could not allocate a unique order id after %d attempts: %w", createAttempts, lastErr)
}

// GetUserOrders lists the user's orders, most recent first. A user with no
// orders gets an empty list, not an error.
func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetOrderByID looks up by the human-facing order code. A miss is a normal
// outcome: (nil, nil), distinct from a storage failure.
func (s *Service) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

// CancelOrder moves the order to cancelled if its current status permits it.
// Delivered and already-cancelled orders are rejected with
// ErrInvalidTransition. The underlying update is conditional on the status
// read here, so a concurrent fulfillment update surfaces as
// ErrStatusConflict instead of being overwritten.
func (s *Service) CancelOrder(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, models.StatusCancelled)
}

// AdvanceStatus applies a fulfillment transition (pending -> processing ->
// shipped -> delivered) driven by an external process. Illegal transitions
// are rejected the same way cancellation is.
func (s *Service) AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	return s.transition(ctx, orderID, next)
}

func (s *Service) transition(ctx context.Context, orderID string, next models.OrderStatus) error {
	order, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}
	return s.repo.UpdateStatus(ctx, orderID, order.Status, next)
}
