package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/internal/cart"
	"github.com/spoxpro/spoxpro-backend/internal/catalog"
	"github.com/spoxpro/spoxpro-backend/internal/identity"
	"github.com/spoxpro/spoxpro-backend/internal/orders"
	"github.com/spoxpro/spoxpro-backend/pkg/db"
	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
	"github.com/spoxpro/spoxpro-backend/pkg/metrics"
)

const maxConflictRetries = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries the buyer-provided checkout fields.
type Input struct {
	ShippingAddress string
}

// Service converts a cart into an order, decrementing stock atomically.
type Service interface {
	Execute(ctx context.Context, principal identity.Principal, input Input) (*orders.OrderDTO, error)
}

type service struct {
	cartRepo   *cart.Repository
	ordersRepo *orders.Repository
	ordersSvc  orders.Service
	catalog    *catalog.Repository
	tx         txRunner
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
}

// NewService builds the checkout service. The metrics collector may be nil.
func NewService(
	cartRepo *cart.Repository,
	ordersRepo *orders.Repository,
	ordersSvc orders.Service,
	catalogRepo *catalog.Repository,
	tx txRunner,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		ordersSvc:  ordersSvc,
		catalog:    catalogRepo,
		tx:         tx,
		metrics:    checkoutMetrics,
		logg:       logg,
	}, nil
}

// Execute places an order for the principal's entire cart. Stock is
// decremented and the cart cleared in the same transaction, so a failure on
// any line leaves both untouched. Prices are re-read at execution time; the
// values the buyer saw in the cart are not honored if the product changed.
func (s *service) Execute(ctx context.Context, principal identity.Principal, input Input) (*orders.OrderDTO, error) {
	if !principal.IsAuthenticated() {
		s.metrics.IncOutcome("unauthorized")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires a signed-in account")
	}
	address := strings.TrimSpace(input.ShippingAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}

	var orderID uuid.UUID
	backoff := retry.WithMaxRetries(maxConflictRetries, retry.NewExponential(20*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := s.placeOrder(ctx, principal.UserID, address)
		if err != nil {
			// Serialization and deadlock failures are safe to rerun on a
			// fresh transaction. Business failures are final.
			if db.IsSerializationFailure(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		orderID = id
		return nil
	})
	if err != nil {
		s.observeFailure(ctx, err)
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	s.metrics.IncOutcome("success")
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"user_id":  principal.UserID.String(),
	})
	s.logg.Info(ctx, "checkout completed")

	return s.ordersSvc.Get(ctx, principal, orderID)
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, address string) (uuid.UUID, error) {
	owner := cart.OwnerForUser(userID)
	var orderID uuid.UUID

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txCart := s.cartRepo.WithTx(tx)
		txOrders := s.ordersRepo.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)

		lines, err := txCart.ListLineRecords(ctx, owner)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		order := &models.Order{
			UserID:          userID,
			Status:          enums.OrderStatusProcessing,
			ShippingAddress: address,
			Items:           make([]models.OrderItem, 0, len(lines)),
		}
		for _, line := range lines {
			ok, err := txCatalog.DecrementStock(ctx, line.ProductID, line.Size, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				available, err := txCatalog.AvailableQuantity(ctx, line.ProductID, line.Size)
				if err != nil {
					return err
				}
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(map[string]any{
					"product_id": line.ProductID,
					"size":       line.Size,
					"requested":  line.Quantity,
					"available":  available,
				})
			}

			unit := catalog.EffectivePriceCents(line.PriceCents, line.DiscountPercent)
			order.Items = append(order.Items, models.OrderItem{
				ProductID:            line.ProductID,
				Size:                 line.Size,
				Quantity:             line.Quantity,
				PriceAtPurchaseCents: unit,
			})
			order.TotalCents += unit * line.Quantity
		}

		if err := txOrders.Create(ctx, order); err != nil {
			return err
		}
		if err := txCart.Clear(ctx, owner); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	return orderID, err
}

func (s *service) observeFailure(ctx context.Context, err error) {
	outcome := "error"
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeInsufficientStock:
			outcome = "insufficient_stock"
		case pkgerrors.CodeEmptyCart:
			outcome = "empty_cart"
		case pkgerrors.CodeValidation:
			outcome = "validation"
		}
	}
	s.metrics.IncOutcome(outcome)
	if outcome == "error" {
		s.logg.Error(ctx, "checkout failed", err)
	}
}
