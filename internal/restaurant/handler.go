package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rahulm/restaurant-backend/internal/middleware"
	"github.com/rahulm/restaurant-backend/internal/models"
	"github.com/rahulm/restaurant-backend/internal/store"
)

// maxImageSize bounds food-item image uploads.
const maxImageSize = 10 << 20

// Store is the persistence surface the handlers need. *store.MongoStore
// implements it; tests use an in-memory fake.
type Store interface {
	InsertFoodItem(ctx context.Context, item *models.FoodItem) (string, error)
	ListFoodItems(ctx context.Context) ([]models.FoodItem, error)
	GetFoodItem(ctx context.Context, id string) (*models.FoodItem, error)
	UpdateFoodItem(ctx context.Context, id string, req *models.UpdateFoodItemRequest) (*models.FoodItem, error)
	SetFoodItemImage(ctx context.Context, id, key string) error
	DeleteFoodItem(ctx context.Context, id string) error

	InsertOrder(ctx context.Context, order *models.Order) (string, error)
	ListOrders(ctx context.Context) ([]models.Order, error)

	InsertReservation(ctx context.Context, rsv *models.Reservation) (string, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error

	InsertCartItem(ctx context.Context, item *models.CartItem) (string, error)
	ListCartItems(ctx context.Context, user string) ([]models.CartItem, error)
	ClearCart(ctx context.Context, user string) error

	InsertMenu(ctx context.Context, menu *models.Menu) (string, error)
	ListMenus(ctx context.Context) ([]models.Menu, error)
}

// ImageStore stores food-item images. Upload derives and returns the object
// key and rejects non-image content types with store.ErrUnsupportedImageType.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Cache caches the food-item listing.
type Cache interface {
	GetFoodItems(ctx context.Context) ([]models.FoodItem, bool)
	SetFoodItems(ctx context.Context, items []models.FoodItem) error
	Invalidate(ctx context.Context) error
}

// Handler holds the food item, cart, order, reservation, and menu handlers.
// images and cache may be nil when the backing services are not configured.
type Handler struct {
	store  Store
	images ImageStore
	cache  Cache
	log    *zap.SugaredLogger
}

func NewHandler(s Store, images ImageStore, cache Cache, log *zap.SugaredLogger) *Handler {
	return &Handler{store: s, images: images, cache: cache, log: log}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.log.Errorw(msg, "error", err)
	http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ── Food items ───────────────────────────────────────────

func (h *Handler) AddFoodItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddFoodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Price <= 0 {
		http.Error(w, `{"message":"name and a positive price are required"}`, http.StatusBadRequest)
		return
	}

	item := &models.FoodItem{Name: req.Name, Price: req.Price, Time: req.Time}
	if _, err := h.store.InsertFoodItem(r.Context(), item); err != nil {
		h.internalError(w, "adding food item", err)
		return
	}
	h.invalidateListing(r.Context())

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Food item added successfully"})
}

func (h *Handler) ListFoodItems(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if items, ok := h.cache.GetFoodItems(r.Context()); ok {
			writeJSON(w, http.StatusOK, items)
			return
		}
	}

	items, err := h.store.ListFoodItems(r.Context())
	if err != nil {
		h.internalError(w, "listing food items", err)
		return
	}
	if items == nil {
		items = []models.FoodItem{}
	}

	if h.cache != nil {
		if err := h.cache.SetFoodItems(r.Context(), items); err != nil {
			h.log.Warnw("caching food items", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// UpdateFoodItem applies the fields present in the body; omitted fields keep
// their stored values.
func (h *Handler) UpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateFoodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name != nil && *req.Name == "" {
		http.Error(w, `{"message":"name must not be empty"}`, http.StatusBadRequest)
		return
	}
	if req.Price != nil && *req.Price <= 0 {
		http.Error(w, `{"message":"price must be positive"}`, http.StatusBadRequest)
		return
	}

	item, err := h.store.UpdateFoodItem(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Food item not found"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "updating food item", err)
		return
	}
	h.invalidateListing(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Food item updated successfully",
		"updatedFoodItem": item,
	})
}

func (h *Handler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.store.GetFoodItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Food item not found"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "loading food item", err)
		return
	}

	if err := h.store.DeleteFoodItem(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Food item not found"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "deleting food item", err)
		return
	}
	h.invalidateListing(r.Context())

	// Best effort: an orphaned object is harmless.
	if h.images != nil && item.Image != "" {
		if err := h.images.Remove(r.Context(), item.Image); err != nil {
			h.log.Warnw("removing food item image", "key", item.Image, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Food item deleted successfully"})
}

func (h *Handler) UploadFoodItemImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.GetFoodItem(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Food item not found"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "loading food item", err)
		return
	}

	// Read one byte past the limit so truncation is detectable.
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageSize+1))
	if err != nil {
		h.internalError(w, "reading image upload", err)
		return
	}
	if len(data) == 0 {
		http.Error(w, `{"message":"image body is required"}`, http.StatusBadRequest)
		return
	}
	if len(data) > maxImageSize {
		http.Error(w, `{"message":"image exceeds maximum size"}`, http.StatusRequestEntityTooLarge)
		return
	}

	key, err := h.images.Upload(r.Context(), data, r.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, store.ErrUnsupportedImageType) {
			http.Error(w, `{"message":"unsupported image type"}`, http.StatusBadRequest)
			return
		}
		h.internalError(w, "uploading image", err)
		return
	}
	if err := h.store.SetFoodItemImage(r.Context(), id, key); err != nil {
		h.internalError(w, "saving image key", err)
		return
	}
	h.invalidateListing(r.Context())

	writeJSON(w, http.StatusCreated, map[string]string{"image": key})
}

func (h *Handler) DownloadFoodItemImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.store.GetFoodItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Food item not found"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "loading food item", err)
		return
	}
	if item.Image == "" {
		http.Error(w, `{"message":"Food item has no image"}`, http.StatusNotFound)
		return
	}

	data, contentType, err := h.images.Download(r.Context(), item.Image)
	if err != nil {
		h.internalError(w, "downloading image", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (h *Handler) invalidateListing(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warnw("invalidating food item cache", "error", err)
	}
}

// ── Orders ───────────────────────────────────────────────

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		h.internalError(w, "listing orders", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// AddOrder checks out the caller's cart: sums current food-item prices into
// the order total and clears the cart.
func (h *Handler) AddOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, `{"message":"Unauthorized: Invalid token"}`, http.StatusUnauthorized)
		return
	}

	var req models.AddOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	cartItems, err := h.store.ListCartItems(r.Context(), claims.Username)
	if err != nil {
		h.internalError(w, "listing cart", err)
		return
	}
	if len(cartItems) == 0 {
		http.Error(w, `{"message":"Cart is empty"}`, http.StatusBadRequest)
		return
	}

	var total float64
	items := make([]primitive.ObjectID, 0, len(cartItems))
	for _, ci := range cartItems {
		item, err := h.store.GetFoodItem(r.Context(), ci.FoodItemID.Hex())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// The item was deleted after being carted; skip it.
				continue
			}
			h.internalError(w, "loading food item", err)
			return
		}
		total += item.Price
		items = append(items, item.ID)
	}
	if len(items) == 0 {
		http.Error(w, `{"message":"Cart is empty"}`, http.StatusBadRequest)
		return
	}

	order := &models.Order{
		Items:      items,
		TotalPrice: total,
		EstTime:    req.EstTime,
		OrderBy:    claims.Username,
	}
	if _, err := h.store.InsertOrder(r.Context(), order); err != nil {
		h.internalError(w, "adding order", err)
		return
	}
	if err := h.store.ClearCart(r.Context(), claims.Username); err != nil {
		h.log.Warnw("clearing cart", "user", claims.Username, "error", err)
	}

	writeJSON(w, http.StatusCreated, order)
}

// ── Cart ─────────────────────────────────────────────────

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, `{"message":"Unauthorized: Invalid token"}`, http.StatusUnauthorized)
		return
	}

	var req models.AddCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	item, err := h.store.GetFoodItem(r.Context(), req.FoodItemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Food item not found"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "loading food item", err)
		return
	}

	cartItem := &models.CartItem{FoodItemID: item.ID, User: claims.Username}
	if _, err := h.store.InsertCartItem(r.Context(), cartItem); err != nil {
		h.internalError(w, "adding to cart", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Food item added to cart successfully"})
}

func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, `{"message":"Unauthorized: Invalid token"}`, http.StatusUnauthorized)
		return
	}

	items, err := h.store.ListCartItems(r.Context(), claims.Username)
	if err != nil {
		h.internalError(w, "listing cart", err)
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// ── Reservations ─────────────────────────────────────────

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	rsvs, err := h.store.ListReservations(r.Context())
	if err != nil {
		h.internalError(w, "listing reservations", err)
		return
	}
	if rsvs == nil {
		rsvs = []models.Reservation{}
	}
	writeJSON(w, http.StatusOK, rsvs)
}

func (h *Handler) AddReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, `{"message":"Unauthorized: Invalid token"}`, http.StatusUnauthorized)
		return
	}

	var req models.AddReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Time == "" {
		http.Error(w, `{"message":"time is required"}`, http.StatusBadRequest)
		return
	}

	rsv := &models.Reservation{Time: req.Time, MadeBy: claims.Username}
	if _, err := h.store.InsertReservation(r.Context(), rsv); err != nil {
		h.internalError(w, "adding reservation", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Reservation added successfully"})
}

func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteReservation(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"message":"Reservation not found"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "deleting reservation", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Reservation deleted successfully"})
}

// ── Menus ────────────────────────────────────────────────

func (h *Handler) AddMenu(w http.ResponseWriter, r *http.Request) {
	var req models.AddMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	items := make([]primitive.ObjectID, 0, len(req.Items))
	for _, id := range req.Items {
		item, err := h.store.GetFoodItem(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, `{"message":"Food item not found"}`, http.StatusNotFound)
				return
			}
			h.internalError(w, "loading food item", err)
			return
		}
		items = append(items, item.ID)
	}

	menu := &models.Menu{Items: items, Stock: req.Stock}
	if _, err := h.store.InsertMenu(r.Context(), menu); err != nil {
		h.internalError(w, "adding menu", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Menu added successfully"})
}

func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.store.ListMenus(r.Context())
	if err != nil {
		h.internalError(w, "listing menus", err)
		return
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	writeJSON(w, http.StatusOK, menus)
}
