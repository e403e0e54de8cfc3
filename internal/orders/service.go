package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/internal/catalog"
	"github.com/spoxpro/spoxpro-backend/internal/identity"
	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
	"github.com/spoxpro/spoxpro-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order history and fulfillment state changes.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListAll(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*AdminListResult, error)
	Get(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo    *Repository
	catalog *catalog.Repository
	tx      txRunner
	logg    *logger.Logger
}

// NewService builds the orders service.
func NewService(repo *Repository, catalogRepo *catalog.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
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
	return &service{repo: repo, catalog: catalogRepo, tx: tx, logg: logg}, nil
}

// List returns one page of the user's order history, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	summaries := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summaryFromModel(row))
	}
	return &ListResult{Orders: summaries, NextCursor: nextCursor}, nil
}

// ListAll returns one page of every customer's orders for the back office,
// newest first, optionally filtered by status.
func (s *service) ListAll(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*AdminListResult, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}

	rows, nextCursor, err := s.repo.ListAll(ctx, params, status)
	if err != nil {
		return nil, normalizeErr(err, "list all orders")
	}
	summaries := make([]AdminSummaryDTO, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, AdminSummaryDTO{
			SummaryDTO: summaryFromModel(row),
			UserID:     row.UserID,
		})
	}
	return &AdminListResult{Orders: summaries, NextCursor: nextCursor}, nil
}

// Get loads one order. Users see only their own orders; admins see any.
// Another user's order reads as not found rather than forbidden.
func (s *service) Get(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*OrderDTO, error) {
	var (
		order *models.Order
		err   error
	)
	if principal.IsAdmin {
		order, err = s.repo.FindByID(ctx, orderID)
	} else {
		order, err = s.repo.FindByIDForUser(ctx, orderID, principal.UserID)
	}
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return s.buildDTO(ctx, order)
}

// Cancel cancels the user's own order while it is still processing and
// returns the reserved stock to inventory.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.FindByIDForUser(ctx, orderID, userID)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if order.Status != enums.OrderStatusProcessing {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
		}

		if err := s.restoreStock(ctx, tx, order.Items); err != nil {
			return err
		}
		if err := txRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = enums.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, normalizeErr(err, "cancel order")
	}

	ctx = s.logg.WithField(ctx, "order_id", orderID.String())
	s.logg.Info(ctx, "order cancelled")
	return s.buildDTO(ctx, cancelled)
}

// UpdateStatus moves an order through the fulfillment state machine. Moving
// to cancelled returns the stock to inventory.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.FindByID(ctx, orderID)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot transition order from %q to %q", order.Status, next))
		}

		if next == enums.OrderStatusCancelled {
			if err := s.restoreStock(ctx, tx, order.Items); err != nil {
				return err
			}
		}
		if err := txRepo.UpdateStatus(ctx, order.ID, next); err != nil {
			return err
		}
		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		return nil, normalizeErr(err, "update order status")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"status":   string(next),
	})
	s.logg.Info(ctx, "order status updated")
	return s.buildDTO(ctx, updated)
}

func (s *service) restoreStock(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	txCatalog := s.catalog.WithTx(tx)
	for _, item := range items {
		if err := txCatalog.RestoreStock(ctx, item.ProductID, item.Size, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) buildDTO(ctx context.Context, order *models.Order) (*OrderDTO, error) {
	records, err := s.repo.ListItemRecords(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}

	items := make([]ItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, ItemDTO{
			ProductID:            record.ProductID,
			Name:                 record.Name,
			ArticleNumber:        record.ArticleNumber,
			Size:                 record.Size,
			Quantity:             record.Quantity,
			PriceAtPurchaseCents: record.PriceAtPurchaseCents,
			LineTotalCents:       record.PriceAtPurchaseCents * record.Quantity,
		})
	}

	return &OrderDTO{
		ID:              order.ID,
		Status:          order.Status,
		TotalCents:      order.TotalCents,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}, nil
}

func normalizeErr(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
