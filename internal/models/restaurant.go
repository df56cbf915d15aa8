package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodItem is a menu entry stored in MongoDB. Image holds the object key of
// an uploaded picture, empty when none was uploaded.
type FoodItem struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Name      string             `json:"name"       bson:"name"`
	Price     float64            `json:"price"      bson:"price"`
	Time      string             `json:"time"       bson:"time"` // preparation time, free-form
	Image     string             `json:"image"      bson:"image,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Order is a placed order built from the user's cart.
type Order struct {
	ID         primitive.ObjectID   `json:"id"          bson:"_id,omitempty"`
	Items      []primitive.ObjectID `json:"items"       bson:"items"`
	TotalPrice float64              `json:"total_price" bson:"total_price"`
	EstTime    string               `json:"est_time"    bson:"est_time"`
	OrderBy    string               `json:"order_by"    bson:"order_by"` // username
	CreatedAt  time.Time            `json:"created_at"  bson:"created_at"`
}

// Reservation is a table reservation.
type Reservation struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Time      string             `json:"time"       bson:"time"`
	MadeBy    string             `json:"made_by"    bson:"made_by"` // username
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CartItem is a single food item placed in a user's cart.
type CartItem struct {
	ID         primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	FoodItemID primitive.ObjectID `json:"food_item_id" bson:"food_item_id"`
	User       string             `json:"user"         bson:"user"` // username
	CreatedAt  time.Time          `json:"created_at"   bson:"created_at"`
}

// Menu groups food items into a published menu.
type Menu struct {
	ID        primitive.ObjectID   `json:"id"         bson:"_id,omitempty"`
	Items     []primitive.ObjectID `json:"items"      bson:"items"`
	Stock     bool                 `json:"stock"      bson:"stock"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// AddFoodItemRequest is the JSON body for POST /fooditems/add.
type AddFoodItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Time  string  `json:"time"`
}

// UpdateFoodItemRequest is the JSON body for PUT /fooditems/{id}. Fields are
// pointers so omitted fields are left unchanged rather than zeroed.
type UpdateFoodItemRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Time  *string  `json:"time"`
}

// AddCartRequest is the JSON body for POST /cart/add.
type AddCartRequest struct {
	FoodItemID string `json:"foodItemId"`
}

// AddReservationRequest is the JSON body for POST /reservation/add.
type AddReservationRequest struct {
	Time string `json:"time"`
}

// AddOrderRequest is the JSON body for POST /order/add.
type AddOrderRequest struct {
	EstTime string `json:"est_time"`
}

// AddMenuRequest is the JSON body for POST /menu/add.
type AddMenuRequest struct {
	Items []string `json:"items"`
	Stock bool     `json:"stock"`
}
