package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appinv "github.com/ngocrm/backend/internal/application/inventory"
	"github.com/ngocrm/backend/internal/domain/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/ngocrm/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compact in-memory repositories for exercising handlers end to end.

type memItemRepo struct {
	items map[uuid.UUID]*inventory.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (m *memItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *memItemRepo) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return shared.ErrNotFound
	}
	return m.Save(ctx, item)
}

func (m *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *memItemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	return m.FindByID(ctx, id)
}

func (m *memItemRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[inventory.InventoryItem], error) {
	var items []inventory.InventoryItem
	for _, item := range m.items {
		items = append(items, *item)
	}
	p := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &p, nil
}

func (m *memItemRepo) FindBelowReorderLevel(_ context.Context, filter shared.Filter) (*shared.Paginated[inventory.InventoryItem], error) {
	var items []inventory.InventoryItem
	for _, item := range m.items {
		if item.IsBelowReorderLevel() {
			items = append(items, *item)
		}
	}
	p := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &p, nil
}

func (m *memItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *memItemRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

type memCategoryRepo struct {
	categories map[uuid.UUID]*inventory.InventoryCategory
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[uuid.UUID]*inventory.InventoryCategory)}
}

func (m *memCategoryRepo) Save(_ context.Context, category *inventory.InventoryCategory) error {
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryCategory, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *memCategoryRepo) FindByName(_ context.Context, name string) (*inventory.InventoryCategory, error) {
	for _, category := range m.categories {
		if category.Name == name {
			copied := *category
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memCategoryRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[inventory.InventoryCategory], error) {
	var categories []inventory.InventoryCategory
	for _, category := range m.categories {
		categories = append(categories, *category)
	}
	p := shared.NewPaginated(categories, int64(len(categories)), filter.Page, filter.PageSize)
	return &p, nil
}

func (m *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

type memTransactionRepo struct {
	transactions []inventory.InventoryTransaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{}
}

func (m *memTransactionRepo) Create(_ context.Context, tx *inventory.InventoryTransaction) error {
	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *memTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			copied := m.transactions[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memTransactionRepo) FindByItem(_ context.Context, itemID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.InventoryTransaction], error) {
	var txs []inventory.InventoryTransaction
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if m.transactions[i].ItemID == itemID {
			txs = append(txs, m.transactions[i])
		}
	}
	p := shared.NewPaginated(txs, int64(len(txs)), filter.Page, filter.PageSize)
	return &p, nil
}

func (m *memTransactionRepo) FindByItemInCommitOrder(_ context.Context, itemID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	for i := range m.transactions {
		if m.transactions[i].ItemID == itemID {
			txs = append(txs, m.transactions[i])
		}
	}
	return txs, nil
}

func (m *memTransactionRepo) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	for i := range m.transactions {
		if m.transactions[i].ItemID == itemID {
			count++
		}
	}
	return count, nil
}

func setupTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	itemRepo := newMemItemRepo()
	txRepo := newMemTransactionRepo()
	service := appinv.NewInventoryService(
		itemRepo,
		newMemCategoryRepo(),
		txRepo,
		appinv.NewNoOpTransactionScope(itemRepo, txRepo),
	)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewInventoryHandler(service).RegisterRoutes(api)
	NewCategoryHandler(service).RegisterRoutes(api)
	NewTransactionHandler(service).RegisterRoutes(api)

	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createItemViaAPI(t *testing.T, engine *gin.Engine) uuid.UUID {
	t.Helper()
	w := doRequest(t, engine, http.MethodPost, "/api/v1/items", gin.H{
		"name":            "Rice 25kg bags",
		"unit_of_measure": "bags",
		"reorder_level":   "20",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestInventoryHandler_CreateAndGetItem(t *testing.T) {
	engine := setupTestEngine(t)
	itemID := createItemViaAPI(t, engine)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/items/"+itemID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rice 25kg bags")
	assert.Contains(t, w.Body.String(), `"quantity_on_hand":"0"`)
}

func TestInventoryHandler_GetItem_BadID(t *testing.T) {
	engine := setupTestEngine(t)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/items/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_RecordTransaction(t *testing.T) {
	t.Run("IN then OUT updates the balance", func(t *testing.T) {
		engine := setupTestEngine(t)
		itemID := createItemViaAPI(t, engine)
		path := fmt.Sprintf("/api/v1/items/%s/transactions", itemID)

		w := doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "IN", "quantity": "100"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "OUT", "quantity": "30", "note": "distribution"})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data struct {
				Item struct {
					QuantityOnHand string `json:"quantity_on_hand"`
				} `json:"item"`
				Transaction struct {
					BalanceAfter string `json:"balance_after"`
				} `json:"transaction"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "70", resp.Data.Item.QuantityOnHand)
		assert.Equal(t, "70", resp.Data.Transaction.BalanceAfter)
	})

	t.Run("overdraw returns 422 with insufficient stock code", func(t *testing.T) {
		engine := setupTestEngine(t)
		itemID := createItemViaAPI(t, engine)
		path := fmt.Sprintf("/api/v1/items/%s/transactions", itemID)

		w := doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "IN", "quantity": "10"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "OUT", "quantity": "11"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INSUFFICIENT_STOCK")
	})

	t.Run("unknown kind is rejected by binding", func(t *testing.T) {
		engine := setupTestEngine(t)
		itemID := createItemViaAPI(t, engine)
		path := fmt.Sprintf("/api/v1/items/%s/transactions", itemID)

		w := doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "TRANSFER", "quantity": "1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown item returns 404", func(t *testing.T) {
		engine := setupTestEngine(t)
		path := fmt.Sprintf("/api/v1/items/%s/transactions", uuid.New())

		w := doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "IN", "quantity": "1"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})
}

func TestTransactionHandler_AppendOnly(t *testing.T) {
	engine := setupTestEngine(t)
	id := uuid.New()

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		w := doRequest(t, engine, method, "/api/v1/transactions/"+id.String(), gin.H{})
		assert.Equal(t, http.StatusConflict, w.Code, method)
		assert.Contains(t, w.Body.String(), "ERR_APPEND_ONLY", method)
	}
}

func TestInventoryHandler_LowStock(t *testing.T) {
	engine := setupTestEngine(t)
	itemID := createItemViaAPI(t, engine) // reorder level 20
	path := fmt.Sprintf("/api/v1/items/%s/transactions", itemID)

	w := doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "IN", "quantity": "15"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/items/low-stock", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), itemID.String())
}

func TestInventoryHandler_Reconciliation(t *testing.T) {
	engine := setupTestEngine(t)
	itemID := createItemViaAPI(t, engine)
	path := fmt.Sprintf("/api/v1/items/%s/transactions", itemID)

	doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "IN", "quantity": "100"})
	doRequest(t, engine, http.MethodPost, path, gin.H{"kind": "ADJUSTMENT", "quantity": "-2.5"})

	w := doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/items/%s/reconciliation", itemID), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"consistent":true`)
	assert.Contains(t, w.Body.String(), `"transaction_count":2`)
}
