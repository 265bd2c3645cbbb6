package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickagee13/pantry-path/internal/auth"
	"github.com/nickagee13/pantry-path/internal/engine"
	"github.com/nickagee13/pantry-path/internal/models"
	"github.com/nickagee13/pantry-path/internal/remote"
	"github.com/nickagee13/pantry-path/internal/store"
)

const testSecret = "test-secret"

type memGrocery struct {
	items []models.GroceryItem
}

func (m *memGrocery) List(ctx context.Context, p auth.Principal) ([]models.GroceryItem, error) {
	return append([]models.GroceryItem(nil), m.items...), nil
}

func (m *memGrocery) Insert(ctx context.Context, p auth.Principal, item models.GroceryItem) (string, error) {
	m.items = append(m.items, item)
	return item.ID, nil
}

func (m *memGrocery) Update(ctx context.Context, p auth.Principal, id string, patch store.GroceryPatch) error {
	return nil
}

func (m *memGrocery) Delete(ctx context.Context, p auth.Principal, id string) error {
	return nil
}

type memInventory struct {
	items []models.InventoryItem
}

func (m *memInventory) List(ctx context.Context, p auth.Principal) ([]models.InventoryItem, error) {
	return append([]models.InventoryItem(nil), m.items...), nil
}

func (m *memInventory) Insert(ctx context.Context, p auth.Principal, item models.InventoryItem) (string, error) {
	m.items = append(m.items, item)
	return item.ID, nil
}

func (m *memInventory) Update(ctx context.Context, p auth.Principal, id string, patch store.InventoryPatch) error {
	return nil
}

func (m *memInventory) Delete(ctx context.Context, p auth.Principal, id string) error {
	return nil
}

type memStores struct{}

func (memStores) List(ctx context.Context, p auth.Principal) ([]models.StoreEntry, error) {
	return nil, nil
}
func (memStores) Ensure(ctx context.Context, p auth.Principal, name string) error { return nil }
func (memStores) SetOrder(ctx context.Context, p auth.Principal, entries []models.StoreEntry) error {
	return nil
}

type memRecipes struct {
	recipes []models.Recipe
}

func (m *memRecipes) List(ctx context.Context, p auth.Principal) ([]models.Recipe, error) {
	return append([]models.Recipe(nil), m.recipes...), nil
}

func (m *memRecipes) Insert(ctx context.Context, p auth.Principal, recipe models.Recipe) (string, error) {
	m.recipes = append(m.recipes, recipe)
	return recipe.ID, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := &remote.Client{
		Grocery:   &memGrocery{},
		Inventory: &memInventory{},
		Stores:    memStores{},
		Recipes:   &memRecipes{},
		Changes:   remote.NewChangeBus(),
	}
	provider := auth.NewMemoryProvider()
	eng := engine.New(store.New(), client, provider, nil)
	return NewServer(eng, client, provider, nil, testSecret)
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddGroceryItemRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(s, http.MethodPost, "/api/v1/grocery", "", gin.H{"name": "Milk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvalidTokenRejected(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(s, http.MethodPost, "/api/v1/grocery", "Bearer garbage", gin.H{"name": "Milk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddAndListGrocery(t *testing.T) {
	s := newTestServer(t)
	token := bearerToken(t)

	w := doJSON(s, http.MethodPost, "/api/v1/grocery", token, gin.H{"name": "Milk", "store": "Costco"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.GroceryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Costco", created.Store)

	w = doJSON(s, http.MethodGet, "/api/v1/grocery", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stores []struct {
			Name  string               `json:"name"`
			Items []models.GroceryItem `json:"items"`
		} `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Stores, 1)
	assert.Equal(t, "Costco", resp.Stores[0].Name)
	require.Len(t, resp.Stores[0].Items, 1)
	assert.Equal(t, "Milk", resp.Stores[0].Items[0].Name)
}

func TestAddGroceryItemValidationError(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(s, http.MethodPost, "/api/v1/grocery", bearerToken(t), gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGestureEndpointRemovesOnSwipeLeft(t *testing.T) {
	s := newTestServer(t)
	token := bearerToken(t)
	s.engine.Store().InsertInventoryItem(models.InventoryItem{ID: "i1", Name: "Milk", Percentage: 40})

	body := gin.H{"samples": []gin.H{
		{"x": 200, "y": 50, "ms": 0},
		{"x": 120, "y": 50, "ms": 250},
		{"x": 120, "y": 50, "ms": 400},
	}}
	w := doJSON(s, http.MethodPost, "/api/v1/inventory/i1/gesture", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Intent string `json:"intent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "swipe_left", resp.Intent)

	_, ok := s.engine.Store().InventoryItem("i1")
	assert.False(t, ok)
}

func TestGestureEndpointTapIsNoOp(t *testing.T) {
	s := newTestServer(t)
	token := bearerToken(t)
	s.engine.Store().InsertInventoryItem(models.InventoryItem{ID: "i1", Name: "Milk", Percentage: 40})

	body := gin.H{"samples": []gin.H{
		{"x": 200, "y": 50, "ms": 0},
		{"x": 202, "y": 51, "ms": 120},
	}}
	w := doJSON(s, http.MethodPost, "/api/v1/inventory/i1/gesture", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := s.engine.Store().InventoryItem("i1")
	assert.True(t, ok)
}

func TestNotificationLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := bearerToken(t)

	w := doJSON(s, http.MethodGet, "/api/v1/notification", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(s, http.MethodPost, "/api/v1/grocery", token, gin.H{"name": "Milk"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.GroceryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(s, http.MethodGet, "/api/v1/notification", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var n struct {
		Message string `json:"message"`
		HasUndo bool   `json:"has_undo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &n))
	assert.Contains(t, n.Message, "Milk")
	assert.True(t, n.HasUndo)

	w = doJSON(s, http.MethodPost, "/api/v1/notification/undo", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := s.engine.Store().GroceryItem(created.ID)
	assert.False(t, ok, "undo pulls the item back off the list")
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := bearerToken(t)

	for _, name := range []string{"Milk", "Bread"} {
		w := doJSON(s, http.MethodPost, "/api/v1/grocery", token, gin.H{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	s.engine.Store().InsertInventoryItem(models.InventoryItem{ID: "i1", Name: "Spinach", DaysLeft: 1, Percentage: 50})

	w := doJSON(s, http.MethodGet, "/api/v1/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		List     int `json:"list"`
		Expiring int `json:"expiring"`
		CanMake  int `json:"can_make"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.List)
	assert.Equal(t, 1, stats.Expiring)
}

func TestSuggestRecipesUnavailableWithoutSuggester(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(s, http.MethodGet, "/api/v1/suggestions/recipes", bearerToken(t), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReorderStoresEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := bearerToken(t)
	s.engine.Store().ReplaceStores([]models.StoreEntry{
		{Name: "Costco", SortOrder: 1},
		{Name: "Target", SortOrder: 2},
	})

	w := doJSON(s, http.MethodPut, "/api/v1/stores/order", token, gin.H{"order": []string{"Target", "Costco"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Order []string `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Target", "Costco"}, resp.Order)

	w = doJSON(s, http.MethodPut, "/api/v1/stores/order", token, gin.H{"order": []string{"Target", "Target"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDragEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := bearerToken(t)
	s.engine.Store().ReplaceStores([]models.StoreEntry{
		{Name: "A", SortOrder: 1},
		{Name: "B", SortOrder: 2},
		{Name: "C", SortOrder: 3},
	})

	for _, step := range []gin.H{
		{"action": "begin", "name": "A"},
		{"action": "over", "name": "C"},
	} {
		w := doJSON(s, http.MethodPost, "/api/v1/stores/drag", token, step)
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	w := doJSON(s, http.MethodPost, "/api/v1/stores/drag", token, gin.H{"action": "drop"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Order []string `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"B", "C", "A"}, resp.Order)

	w = doJSON(s, http.MethodPost, "/api/v1/stores/drag", token, gin.H{"action": "teleport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
