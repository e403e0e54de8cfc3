package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/internal/catalog"
	"github.com/spoxpro/spoxpro-backend/internal/identity"
	"github.com/spoxpro/spoxpro-backend/pkg/db"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
)

const maxAddConflictRetries = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations for guests and authenticated shoppers.
type Service interface {
	GetCart(ctx context.Context, principal identity.Principal) (*CartDTO, error)
	AddItem(ctx context.Context, principal identity.Principal, productID uuid.UUID, size enums.Size, qty int) (*CartDTO, error)
	UpdateItem(ctx context.Context, principal identity.Principal, productID uuid.UUID, size enums.Size, qty int) (*CartDTO, error)
	RemoveItem(ctx context.Context, principal identity.Principal, productID uuid.UUID, size enums.Size) (*CartDTO, error)
	Clear(ctx context.Context, principal identity.Principal) error
	MergeGuestCart(ctx context.Context, userID uuid.UUID, guestToken string) error
}

type service struct {
	repo    *Repository
	catalog *catalog.Repository
	tx      txRunner
	logg    *logger.Logger
}

// NewService builds the cart service.
func NewService(repo *Repository, catalogRepo *catalog.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
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

// GetCart assembles the cart with fresh pricing. Anonymous principals get an
// empty cart rather than an error.
func (s *service) GetCart(ctx context.Context, principal identity.Principal) (*CartDTO, error) {
	owner, ok := OwnerForPrincipal(principal)
	if !ok {
		return &CartDTO{Lines: []LineDTO{}}, nil
	}

	records, err := s.repo.ListLineRecords(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	return buildCartDTO(records), nil
}

// AddItem folds qty into an existing line or creates one. The combined
// quantity must not exceed the remaining stock for the size.
func (s *service) AddItem(ctx context.Context, principal identity.Principal, productID uuid.UUID, size enums.Size, qty int) (*CartDTO, error) {
	owner, err := s.requireOwner(principal)
	if err != nil {
		return nil, err
	}
	if err := validateLineInput(size, qty); err != nil {
		return nil, err
	}
	if qty == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	backoff := retry.WithMaxRetries(maxAddConflictRetries, retry.NewConstant(10*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			txCatalog := s.catalog.WithTx(tx)

			if _, err := txCatalog.FindByID(ctx, productID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}

			available, err := txCatalog.AvailableQuantity(ctx, productID, size)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
			}

			existing, err := txRepo.FindItem(ctx, owner, productID, size)
			if err != nil && !IsNotFound(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
			}

			target := qty
			if existing != nil {
				target += existing.Quantity
			}
			if target > available {
				return insufficientStock(productID, size, target, available)
			}

			if existing != nil {
				return txRepo.UpdateQuantity(ctx, existing.ID, target)
			}
			_, err = txRepo.CreateItem(ctx, owner, productID, size, target)
			return err
		})
		// A concurrent add for the same line can commit first, so the insert
		// trips the (owner, product, size) unique index. Rerunning folds the
		// quantity into the committed line and rechecks stock against the
		// combined total.
		if db.IsUniqueViolation(err, "") || db.IsSerializationFailure(err) {
			return retry.RetryableError(err)
		}
		return err
	}); err != nil {
		return nil, normalizeErr(err, "add cart item")
	}

	return s.GetCart(ctx, principal)
}

// UpdateItem overwrites a line's quantity. Zero removes the line.
func (s *service) UpdateItem(ctx context.Context, principal identity.Principal, productID uuid.UUID, size enums.Size, qty int) (*CartDTO, error) {
	owner, err := s.requireOwner(principal)
	if err != nil {
		return nil, err
	}
	if err := validateLineInput(size, qty); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)

		existing, err := txRepo.FindItem(ctx, owner, productID, size)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}

		if qty == 0 {
			return txRepo.DeleteByID(ctx, existing.ID)
		}

		available, err := txCatalog.AvailableQuantity(ctx, productID, size)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
		}
		if qty > available {
			return insufficientStock(productID, size, qty, available)
		}
		return txRepo.UpdateQuantity(ctx, existing.ID, qty)
	}); err != nil {
		return nil, normalizeErr(err, "update cart item")
	}

	return s.GetCart(ctx, principal)
}

// RemoveItem deletes a line. Removing an absent line succeeds.
func (s *service) RemoveItem(ctx context.Context, principal identity.Principal, productID uuid.UUID, size enums.Size) (*CartDTO, error) {
	owner, err := s.requireOwner(principal)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.DeleteItem(ctx, owner, productID, size); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.GetCart(ctx, principal)
}

// Clear empties the principal's cart.
func (s *service) Clear(ctx context.Context, principal identity.Principal) error {
	owner, err := s.requireOwner(principal)
	if err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, owner); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// MergeGuestCart folds the guest cart into the user's cart on login. Where
// both carts hold the same product and size the quantities are summed and
// clamped to the remaining stock; lines with no stock at all are dropped.
func (s *service) MergeGuestCart(ctx context.Context, userID uuid.UUID, guestToken string) error {
	if guestToken == "" {
		return nil
	}
	guestOwner := OwnerForGuest(guestToken)
	userOwner := OwnerForUser(userID)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)

		guestItems, err := txRepo.ListItems(ctx, guestOwner)
		if err != nil {
			return err
		}

		for _, guestItem := range guestItems {
			available, err := txCatalog.AvailableQuantity(ctx, guestItem.ProductID, guestItem.Size)
			if err != nil {
				return err
			}

			existing, err := txRepo.FindItem(ctx, userOwner, guestItem.ProductID, guestItem.Size)
			if err != nil && !IsNotFound(err) {
				return err
			}

			target := guestItem.Quantity
			if existing != nil {
				target += existing.Quantity
			}
			if target > available {
				target = available
			}

			switch {
			case target <= 0:
				if existing != nil {
					if err := txRepo.DeleteByID(ctx, existing.ID); err != nil {
						return err
					}
				}
			case existing != nil:
				if err := txRepo.UpdateQuantity(ctx, existing.ID, target); err != nil {
					return err
				}
			default:
				if _, err := txRepo.CreateItem(ctx, userOwner, guestItem.ProductID, guestItem.Size, target); err != nil {
					return err
				}
			}
		}

		return txRepo.Clear(ctx, guestOwner)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge guest cart")
	}
	return nil
}

func (s *service) requireOwner(principal identity.Principal) (Owner, error) {
	owner, ok := OwnerForPrincipal(principal)
	if !ok {
		return Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart identity required")
	}
	return owner, nil
}

func validateLineInput(size enums.Size, qty int) error {
	if !size.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid size")
	}
	if qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	return nil
}

func insufficientStock(productID uuid.UUID, size enums.Size, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(map[string]any{
		"product_id": productID,
		"size":       size,
		"requested":  requested,
		"available":  available,
	})
}

func normalizeErr(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func buildCartDTO(records []lineRecord) *CartDTO {
	dto := &CartDTO{Lines: make([]LineDTO, 0, len(records))}
	for _, record := range records {
		unit := catalog.EffectivePriceCents(record.PriceCents, record.DiscountPercent)
		line := LineDTO{
			ProductID:         record.ProductID,
			Name:              record.Name,
			ArticleNumber:     record.ArticleNumber,
			Size:              record.Size,
			Quantity:          record.Quantity,
			UnitPriceCents:    unit,
			LineTotalCents:    unit * record.Quantity,
			AvailableQuantity: record.Available,
		}
		dto.Lines = append(dto.Lines, line)
		dto.TotalCents += line.LineTotalCents
		dto.ItemCount += line.Quantity
	}
	return dto
}
