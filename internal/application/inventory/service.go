package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
)

// InventoryService handles inventory-related business operations.
// All stock movements go through RecordTransaction; there is deliberately
// no operation that sets an item's quantity directly.
type InventoryService struct {
	itemRepo          inventory.ItemRepository
	categoryRepo      inventory.CategoryRepository
	transactionRepo   inventory.TransactionRepository
	ledger            *inventory.Ledger
	txScope           TransactionScope
	eventPublisher    shared.EventPublisher
	idempotencyStore  shared.IdempotencyStore
	idempotencyConfig shared.IdempotencyConfig
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.ItemRepository,
	categoryRepo inventory.CategoryRepository,
	transactionRepo inventory.TransactionRepository,
	txScope TransactionScope,
) *InventoryService {
	return &InventoryService{
		itemRepo:          itemRepo,
		categoryRepo:      categoryRepo,
		transactionRepo:   transactionRepo,
		ledger:            inventory.NewLedger(),
		txScope:           txScope,
		idempotencyConfig: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables duplicate-request detection for RecordTransaction
func (s *InventoryService) SetIdempotencyStore(store shared.IdempotencyStore, config shared.IdempotencyConfig) {
	s.idempotencyStore = store
	s.idempotencyConfig = config
}

// publishDomainEvents publishes and clears the item's pending domain events
func (s *InventoryService) publishDomainEvents(ctx context.Context, item *inventory.InventoryItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated.
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// CreateItem creates a new inventory item with zero stock
func (s *InventoryService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
		}
	}

	item, err := inventory.NewInventoryItem(req.Name, req.CategoryID, req.UnitOfMeasure, req.ReorderLevel)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// UpdateItem updates an item's descriptive fields. Quantity on hand is not
// touched here; it only changes through RecordTransaction.
func (s *InventoryService) UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
		}
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.UpdateDetails(req.Name, req.Description, req.CategoryID, req.UnitOfMeasure, req.ReorderLevel); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// ListItems retrieves inventory items with filtering and pagination
func (s *InventoryService) ListItems(ctx context.Context, filter ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	domainFilter := toDomainFilter(filter)
	result, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	paginated := shared.NewPaginated(ToItemResponses(result.Items), result.Total, result.Page, result.PageSize)
	return &paginated, nil
}

// ListBelowReorderLevel retrieves items whose quantity on hand is at or below
// their reorder level
func (s *InventoryService) ListBelowReorderLevel(ctx context.Context, filter ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	domainFilter := toDomainFilter(filter)
	result, err := s.itemRepo.FindBelowReorderLevel(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	paginated := shared.NewPaginated(ToItemResponses(result.Items), result.Total, result.Page, result.PageSize)
	return &paginated, nil
}

// DeleteItem removes an item that has no ledger history. Items with committed
// transactions cannot be deleted; their history must stay auditable.
func (s *InventoryService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return err
	}

	count, err := s.transactionRepo.CountByItem(ctx, itemID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrAppendOnly
	}

	return s.itemRepo.Delete(ctx, itemID)
}

// CreateCategory creates a new inventory category
func (s *InventoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if existing, err := s.categoryRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	category, err := inventory.NewInventoryCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// ListCategories retrieves categories with pagination
func (s *InventoryService) ListCategories(ctx context.Context, filter ItemListFilter) (*shared.Paginated[CategoryResponse], error) {
	result, err := s.categoryRepo.FindAll(ctx, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(result.Items))
	for i := range result.Items {
		responses[i] = ToCategoryResponse(&result.Items[i])
	}
	paginated := shared.NewPaginated(responses, result.Total, result.Page, result.PageSize)
	return &paginated, nil
}

// RecordTransaction appends a stock movement to an item's ledger and updates
// the item's quantity on hand in the same database transaction. The item row
// is locked for the duration, so concurrent writers on the same item are
// serialized and each movement is validated against the committed state of
// its predecessor.
func (s *InventoryService) RecordTransaction(ctx context.Context, itemID uuid.UUID, req RecordTransactionRequest) (*RecordTransactionResponse, error) {
	kind := inventory.TransactionKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Invalid transaction kind")
	}

	claimed, err := s.claimIdempotencyKey(ctx, itemID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var (
		item *inventory.InventoryItem
		tx   *inventory.InventoryTransaction
	)

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		tx, err = s.ledger.Record(item, kind, req.Quantity, req.RecordedBy, req.Note)
		if err != nil {
			return err
		}

		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.TransactionRepo().Create(ctx, tx)
	})
	if err != nil {
		// Nothing was persisted, so the caller may retry with the same key.
		if claimed {
			s.releaseIdempotencyKey(ctx, itemID, req.IdempotencyKey)
		}
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	return &RecordTransactionResponse{
		Transaction: ToTransactionResponse(tx),
		Item:        ToItemResponse(item),
	}, nil
}

// claimIdempotencyKey marks the request key as processed, failing with
// ErrDuplicateRequest when it was already claimed. Keys are scoped per item.
// Returns whether this call took the claim, so a failed movement can give the
// key back via releaseIdempotencyKey.
func (s *InventoryService) claimIdempotencyKey(ctx context.Context, itemID uuid.UUID, key string) (bool, error) {
	if s.idempotencyStore == nil || !s.idempotencyConfig.Enabled || key == "" {
		return false, nil
	}

	fresh, err := s.idempotencyStore.MarkProcessed(ctx, scopedIdempotencyKey(itemID, key), s.idempotencyConfig.TTL)
	if err != nil {
		// The store being unreachable must not block stock movements.
		return false, nil
	}
	if !fresh {
		return false, shared.ErrDuplicateRequest
	}
	return true, nil
}

// releaseIdempotencyKey gives a claimed key back after a failed movement.
// Best effort: a release failure only means a retry within the TTL is
// rejected, it never corrupts ledger state.
func (s *InventoryService) releaseIdempotencyKey(ctx context.Context, itemID uuid.UUID, key string) {
	if s.idempotencyStore == nil {
		return
	}
	_ = s.idempotencyStore.Release(ctx, scopedIdempotencyKey(itemID, key))
}

func scopedIdempotencyKey(itemID uuid.UUID, key string) string {
	return fmt.Sprintf("inventory:tx:%s:%s", itemID, key)
}

// GetTransaction retrieves a single ledger entry
func (s *InventoryService) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(tx)
	return &response, nil
}

// ListTransactions retrieves an item's ledger newest-first
func (s *InventoryService) ListTransactions(ctx context.Context, itemID uuid.UUID, filter TransactionListFilter) (*shared.Paginated[TransactionResponse], error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "recorded_at"

	result, err := s.transactionRepo.FindByItem(ctx, itemID, domainFilter)
	if err != nil {
		return nil, err
	}
	paginated := shared.NewPaginated(ToTransactionResponses(result.Items), result.Total, result.Page, result.PageSize)
	return &paginated, nil
}

// Reconcile replays an item's full ledger in commit order and compares the
// fold against the live quantity on hand
func (s *InventoryService) Reconcile(ctx context.Context, itemID uuid.UUID) (*ReconciliationResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactionRepo.FindByItemInCommitOrder(ctx, itemID)
	if err != nil {
		return nil, err
	}

	replayed, consistent := s.ledger.Reconcile(item, txs)

	return &ReconciliationResponse{
		ItemID:           item.ID,
		QuantityOnHand:   item.QuantityOnHand,
		ReplayedQuantity: replayed,
		TransactionCount: int64(len(txs)),
		Consistent:       consistent,
	}, nil
}

func toDomainFilter(filter ItemListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.CategoryID != nil {
		domainFilter.Filters = map[string]interface{}{"category_id": *filter.CategoryID}
	}
	return domainFilter
}
