package restaurant

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rahulm/restaurant-backend/internal/auth"
	"github.com/rahulm/restaurant-backend/internal/middleware"
	"github.com/rahulm/restaurant-backend/internal/models"
	"github.com/rahulm/restaurant-backend/internal/store"
)

// ── fakes ────────────────────────────────────────────────

type fakeStore struct {
	mu           sync.Mutex
	foodItems    map[string]models.FoodItem
	orders       []models.Order
	reservations map[string]models.Reservation
	cart         []models.CartItem
	menus        []models.Menu
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		foodItems:    make(map[string]models.FoodItem),
		reservations: make(map[string]models.Reservation),
	}
}

func (f *fakeStore) InsertFoodItem(ctx context.Context, item *models.FoodItem) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	f.foodItems[item.ID.Hex()] = *item
	return item.ID.Hex(), nil
}

func (f *fakeStore) ListFoodItems(ctx context.Context) ([]models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.FoodItem
	for _, item := range f.foodItems {
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeStore) GetFoodItem(ctx context.Context, id string) (*models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.foodItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (f *fakeStore) UpdateFoodItem(ctx context.Context, id string, req *models.UpdateFoodItemRequest) (*models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.foodItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Time != nil {
		item.Time = *req.Time
	}
	item.UpdatedAt = time.Now()
	f.foodItems[id] = item
	return &item, nil
}

func (f *fakeStore) SetFoodItemImage(ctx context.Context, id, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.foodItems[id]
	if !ok {
		return store.ErrNotFound
	}
	item.Image = key
	f.foodItems[id] = item
	return nil
}

func (f *fakeStore) DeleteFoodItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.foodItems[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.foodItems, id)
	return nil
}

func (f *fakeStore) InsertOrder(ctx context.Context, order *models.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, *order)
	return order.ID.Hex(), nil
}

func (f *fakeStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeStore) InsertReservation(ctx context.Context, rsv *models.Reservation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rsv.ID = primitive.NewObjectID()
	rsv.CreatedAt = time.Now()
	f.reservations[rsv.ID.Hex()] = *rsv
	return rsv.ID.Hex(), nil
}

func (f *fakeStore) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rsvs []models.Reservation
	for _, rsv := range f.reservations {
		rsvs = append(rsvs, rsv)
	}
	return rsvs, nil
}

func (f *fakeStore) DeleteReservation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reservations[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

func (f *fakeStore) InsertCartItem(ctx context.Context, item *models.CartItem) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	f.cart = append(f.cart, *item)
	return item.ID.Hex(), nil
}

func (f *fakeStore) ListCartItems(ctx context.Context, user string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.CartItem
	for _, item := range f.cart {
		if item.User == user {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStore) ClearCart(ctx context.Context, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.CartItem
	for _, item := range f.cart {
		if item.User != user {
			kept = append(kept, item)
		}
	}
	f.cart = kept
	return nil
}

func (f *fakeStore) InsertMenu(ctx context.Context, menu *models.Menu) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu.ID = primitive.NewObjectID()
	menu.CreatedAt = time.Now()
	f.menus = append(f.menus, *menu)
	return menu.ID.Hex(), nil
}

func (f *fakeStore) ListMenus(ctx context.Context) ([]models.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Menu(nil), f.menus...), nil
}

type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !store.ImageContentTypeAllowed(contentType) {
		return "", store.ErrUnsupportedImageType
	}
	key := "fooditems/" + primitive.NewObjectID().Hex()
	f.objects[key] = data
	f.types[key] = contentType
	return key, nil
}

func (f *fakeImageStore) Download(ctx context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return data, f.types[key], nil
}

func (f *fakeImageStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	delete(f.types, key)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	items       []models.FoodItem
	populated   bool
	invalidated int
}

func (c *fakeCache) GetFoodItems(ctx context.Context) ([]models.FoodItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.populated {
		return nil, false
	}
	return c.items, true
}

func (c *fakeCache) SetFoodItems(ctx context.Context, items []models.FoodItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.populated = true
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.populated = false
	c.invalidated++
	return nil
}

// ── harness ──────────────────────────────────────────────

var testSecret = []byte("resource-secret")

func ptr[T any](v T) *T { return &v }

// newTestRouter mounts the handlers behind the real auth gate so requests
// travel the same path as production traffic.
func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(testSecret))

		r.Post("/fooditems/add", h.AddFoodItem)
		r.Get("/fooditems/list", h.ListFoodItems)
		r.Put("/fooditems/{id}", h.UpdateFoodItem)
		r.Delete("/fooditems/{id}", h.DeleteFoodItem)
		r.Post("/fooditems/{id}/image", h.UploadFoodItemImage)
		r.Get("/fooditems/{id}/image", h.DownloadFoodItemImage)

		r.Get("/order/list", h.ListOrders)
		r.Post("/order/add", h.AddOrder)

		r.Post("/cart/add", h.AddToCart)
		r.Get("/cart/list", h.ListCart)

		r.Get("/menu", h.ListMenus)
		r.Post("/menu/add", h.AddMenu)

		r.Get("/reservation/list", h.ListReservations)
		r.Post("/reservation/add", h.AddReservation)
		r.Delete("/reservation/delete/{id}", h.DeleteReservation)
	})
	return r
}

func userToken(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.IssueToken(username, "customer", testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func addFoodItem(t *testing.T, router http.Handler, fs *fakeStore, name string, price float64) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/fooditems/add", userToken(t, "staff"),
		models.AddFoodItemRequest{Name: name, Price: price, Time: "15m"})
	require.Equal(t, http.StatusCreated, w.Code)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	for id, item := range fs.foodItems {
		if item.Name == name {
			return id
		}
	}
	t.Fatalf("food item %q not stored", name)
	return ""
}

// ── tests ────────────────────────────────────────────────

func TestResourceRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	h := NewHandler(newFakeStore(), nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	w := do(t, router, http.MethodGet, "/fooditems/list", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"message":"Unauthorized: No token provided"}`, w.Body.String())
}

func TestFoodItem_AddAndList(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	addFoodItem(t, router, fs, "dosa", 4.5)

	w := do(t, router, http.MethodGet, "/fooditems/list", userToken(t, "staff"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.FoodItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "dosa", items[0].Name)
	require.Equal(t, 4.5, items[0].Price)
}

func TestFoodItem_AddValidation(t *testing.T) {
	t.Parallel()

	h := NewHandler(newFakeStore(), nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	w := do(t, router, http.MethodPost, "/fooditems/add", userToken(t, "staff"),
		models.AddFoodItemRequest{Name: "", Price: 2})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/fooditems/add", userToken(t, "staff"),
		models.AddFoodItemRequest{Name: "idli", Price: 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFoodItem_Update(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	id := addFoodItem(t, router, fs, "vada", 2)

	w := do(t, router, http.MethodPut, "/fooditems/"+id, userToken(t, "staff"),
		models.UpdateFoodItemRequest{Name: ptr("medu vada"), Price: ptr(2.5), Time: ptr("10m")})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string          `json:"message"`
		Updated models.FoodItem `json:"updatedFoodItem"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Food item updated successfully", resp.Message)
	require.Equal(t, "medu vada", resp.Updated.Name)
	require.Equal(t, 2.5, resp.Updated.Price)
}

func TestFoodItem_UpdatePartialBodyKeepsOmittedFields(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	id := addFoodItem(t, router, fs, "uttapam", 5)

	w := do(t, router, http.MethodPut, "/fooditems/"+id, userToken(t, "staff"),
		map[string]any{"price": 9})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Updated models.FoodItem `json:"updatedFoodItem"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "uttapam", resp.Updated.Name, "omitted name must be preserved")
	require.Equal(t, 9.0, resp.Updated.Price)
	require.Equal(t, "15m", resp.Updated.Time, "omitted time must be preserved")
}

func TestFoodItem_UpdateValidation(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	id := addFoodItem(t, router, fs, "kesari", 3)

	w := do(t, router, http.MethodPut, "/fooditems/"+id, userToken(t, "staff"),
		map[string]any{"name": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPut, "/fooditems/"+id, userToken(t, "staff"),
		map[string]any{"price": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFoodItem_UpdateMissing(t *testing.T) {
	t.Parallel()

	h := NewHandler(newFakeStore(), nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	w := do(t, router, http.MethodPut, "/fooditems/"+primitive.NewObjectID().Hex(), userToken(t, "staff"),
		models.UpdateFoodItemRequest{Name: ptr("x"), Price: ptr(1.0)})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Food item not found")
}

func TestFoodItem_DeleteFlow(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	w := do(t, router, http.MethodDelete, "/fooditems/"+primitive.NewObjectID().Hex(), userToken(t, "staff"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	id := addFoodItem(t, router, fs, "sambar", 3)

	w = do(t, router, http.MethodDelete, "/fooditems/"+id, userToken(t, "staff"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/fooditems/list", userToken(t, "staff"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestCart_AddUnknownFoodItem(t *testing.T) {
	t.Parallel()

	h := NewHandler(newFakeStore(), nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	w := do(t, router, http.MethodPost, "/cart/add", userToken(t, "alice"),
		models.AddCartRequest{FoodItemID: primitive.NewObjectID().Hex()})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Food item not found")
}

func TestCart_AddAndCheckout(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)
	tok := userToken(t, "alice")

	dosaID := addFoodItem(t, router, fs, "dosa", 4.5)
	chaiID := addFoodItem(t, router, fs, "chai", 1.5)

	for _, id := range []string{dosaID, chaiID} {
		w := do(t, router, http.MethodPost, "/cart/add", tok, models.AddCartRequest{FoodItemID: id})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, router, http.MethodGet, "/cart/list", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart []models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 2)

	w = do(t, router, http.MethodPost, "/order/add", tok, models.AddOrderRequest{EstTime: "30m"})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.Equal(t, 6.0, order.TotalPrice)
	require.Equal(t, "alice", order.OrderBy)
	require.Len(t, order.Items, 2)

	// Checkout empties the cart.
	w = do(t, router, http.MethodGet, "/cart/list", tok, nil)
	require.JSONEq(t, `[]`, w.Body.String())

	w = do(t, router, http.MethodGet, "/order/list", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
}

func TestOrder_EmptyCart(t *testing.T) {
	t.Parallel()

	h := NewHandler(newFakeStore(), nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	w := do(t, router, http.MethodPost, "/order/add", userToken(t, "bob"), models.AddOrderRequest{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Cart is empty")
}

func TestReservation_Flow(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)
	tok := userToken(t, "carol")

	w := do(t, router, http.MethodPost, "/reservation/add", tok, models.AddReservationRequest{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/reservation/add", tok, models.AddReservationRequest{Time: "19:30"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, http.MethodGet, "/reservation/list", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rsvs []models.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsvs))
	require.Len(t, rsvs, 1)
	require.Equal(t, "carol", rsvs[0].MadeBy)

	w = do(t, router, http.MethodDelete, "/reservation/delete/"+primitive.NewObjectID().Hex(), tok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Reservation not found")

	w = do(t, router, http.MethodDelete, "/reservation/delete/"+rsvs[0].ID.Hex(), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/reservation/list", tok, nil)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestFoodItemImage_UploadAndDownload(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	images := newFakeImageStore()
	h := NewHandler(fs, images, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)
	tok := userToken(t, "staff")

	w := do(t, router, http.MethodPost, "/fooditems/"+primitive.NewObjectID().Hex()+"/image", tok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	id := addFoodItem(t, router, fs, "thali", 9)

	payload := []byte("png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/fooditems/"+id+"/image", bytes.NewReader(payload))
	req.Header.Set("Authorization", tok)
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	w = do(t, router, http.MethodGet, "/fooditems/"+id+"/image", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.Equal(t, payload, w.Body.Bytes())
}

func TestFoodItemImage_RejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	images := newFakeImageStore()
	h := NewHandler(fs, images, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	id := addFoodItem(t, router, fs, "halwa", 4)

	payload := bytes.Repeat([]byte("x"), maxImageSize+1)
	req := httptest.NewRequest(http.MethodPost, "/fooditems/"+id+"/image", bytes.NewReader(payload))
	req.Header.Set("Authorization", userToken(t, "staff"))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Empty(t, images.objects, "oversized upload must not be stored")

	item, err := fs.GetFoodItem(context.Background(), id)
	require.NoError(t, err)
	require.Empty(t, item.Image)
}

func TestFoodItemImage_RejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	images := newFakeImageStore()
	h := NewHandler(fs, images, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)

	id := addFoodItem(t, router, fs, "payasam", 4)

	req := httptest.NewRequest(http.MethodPost, "/fooditems/"+id+"/image", bytes.NewReader([]byte("plain text")))
	req.Header.Set("Authorization", userToken(t, "staff"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "unsupported image type")
	require.Empty(t, images.objects)
}

func TestMenu_AddAndList(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := NewHandler(fs, nil, nil, zap.NewNop().Sugar())
	router := newTestRouter(h)
	tok := userToken(t, "staff")

	id := addFoodItem(t, router, fs, "biryani", 8)

	w := do(t, router, http.MethodPost, "/menu/add", tok,
		models.AddMenuRequest{Items: []string{primitive.NewObjectID().Hex()}, Stock: true})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/menu/add", tok,
		models.AddMenuRequest{Items: []string{id}, Stock: true})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, http.MethodGet, "/menu", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var menus []models.Menu
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &menus))
	require.Len(t, menus, 1)
	require.True(t, menus[0].Stock)
	require.Len(t, menus[0].Items, 1)
}

func TestListingCache_PopulateAndInvalidate(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	cache := &fakeCache{}
	h := NewHandler(fs, nil, cache, zap.NewNop().Sugar())
	router := newTestRouter(h)
	tok := userToken(t, "staff")

	addFoodItem(t, router, fs, "pakora", 3)
	require.Equal(t, 1, cache.invalidated)

	w := do(t, router, http.MethodGet, "/fooditems/list", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, cache.populated, "listing should populate the cache")

	// Served from cache even after a direct store mutation.
	fs.mu.Lock()
	for id := range fs.foodItems {
		delete(fs.foodItems, id)
	}
	fs.mu.Unlock()

	w = do(t, router, http.MethodGet, "/fooditems/list", tok, nil)
	var items []models.FoodItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
}
