package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rahulm/restaurant-backend/internal/models"
)

// MongoStore handles restaurant entity CRUD in MongoDB.
type MongoStore struct {
	foodItems    *mongo.Collection
	orders       *mongo.Collection
	reservations *mongo.Collection
	carts        *mongo.Collection
	menus        *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		foodItems:    db.Collection("fooditems"),
		orders:       db.Collection("orders"),
		reservations: db.Collection("reservations"),
		carts:        db.Collection("carts"),
		menus:        db.Collection("menus"),
	}
}

// parseID maps an invalid hex id to ErrNotFound so handlers answer 404
// instead of 500 for ids that cannot exist.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// ── Food items ───────────────────────────────────────────

func (s *MongoStore) InsertFoodItem(ctx context.Context, item *models.FoodItem) (string, error) {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	res, err := s.foodItems.InsertOne(ctx, item)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	item.ID = oid
	return oid.Hex(), nil
}

func (s *MongoStore) ListFoodItems(ctx context.Context) ([]models.FoodItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.foodItems.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.FoodItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoStore) GetFoodItem(ctx context.Context, id string) (*models.FoodItem, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var item models.FoodItem
	if err := s.foodItems.FindOne(ctx, bson.M{"_id": oid}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpdateFoodItem sets only the fields present in the request and returns the
// updated record. Omitted fields keep their stored values.
func (s *MongoStore) UpdateFoodItem(ctx context.Context, id string, req *models.UpdateFoodItemRequest) (*models.FoodItem, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Time != nil {
		set["time"] = *req.Time
	}
	update := bson.M{"$set": set}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.FoodItem
	err = s.foodItems.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// SetFoodItemImage records the object key of an uploaded image.
func (s *MongoStore) SetFoodItemImage(ctx context.Context, id, key string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"image": key, "updated_at": time.Now()}}
	res, err := s.foodItems.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteFoodItem(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.foodItems.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Orders ───────────────────────────────────────────────

func (s *MongoStore) InsertOrder(ctx context.Context, order *models.Order) (string, error) {
	order.CreatedAt = time.Now()
	res, err := s.orders.InsertOne(ctx, order)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	order.ID = oid
	return oid.Hex(), nil
}

func (s *MongoStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ── Reservations ─────────────────────────────────────────

func (s *MongoStore) InsertReservation(ctx context.Context, rsv *models.Reservation) (string, error) {
	rsv.CreatedAt = time.Now()
	res, err := s.reservations.InsertOne(ctx, rsv)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	rsv.ID = oid
	return oid.Hex(), nil
}

func (s *MongoStore) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.reservations.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rsvs []models.Reservation
	if err := cur.All(ctx, &rsvs); err != nil {
		return nil, err
	}
	return rsvs, nil
}

func (s *MongoStore) DeleteReservation(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.reservations.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Cart ─────────────────────────────────────────────────

func (s *MongoStore) InsertCartItem(ctx context.Context, item *models.CartItem) (string, error) {
	item.CreatedAt = time.Now()
	res, err := s.carts.InsertOne(ctx, item)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	item.ID = oid
	return oid.Hex(), nil
}

func (s *MongoStore) ListCartItems(ctx context.Context, user string) ([]models.CartItem, error) {
	cur, err := s.carts.Find(ctx, bson.M{"user": user})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.CartItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearCart removes all cart items of a user, typically after checkout.
func (s *MongoStore) ClearCart(ctx context.Context, user string) error {
	_, err := s.carts.DeleteMany(ctx, bson.M{"user": user})
	return err
}

// ── Menus ────────────────────────────────────────────────

func (s *MongoStore) InsertMenu(ctx context.Context, menu *models.Menu) (string, error) {
	menu.CreatedAt = time.Now()
	res, err := s.menus.InsertOne(ctx, menu)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	menu.ID = oid
	return oid.Hex(), nil
}

func (s *MongoStore) ListMenus(ctx context.Context) ([]models.Menu, error) {
	cur, err := s.menus.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var menus []models.Menu
	if err := cur.All(ctx, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}
