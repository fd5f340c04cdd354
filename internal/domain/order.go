package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "outfordelivery"
	OrderDelivered      OrderStatus = "delivered"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderOutForDelivery, OrderDelivered:
		return true
	}
	return false
}

type CartItem struct {
	MenuID   primitive.ObjectID `bson:"menu_id"   json:"menu_id"`
	Name     string             `bson:"name"      json:"name"`
	ImageURL string             `bson:"image_url" json:"image_url"`
	Price    int64              `bson:"price"     json:"price"`
	Quantity int                `bson:"quantity"  json:"quantity"`
}

type DeliveryDetails struct {
	Name    string `bson:"name"    json:"name"`
	Email   string `bson:"email"   json:"email"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city"    json:"city"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"               json:"id"`
	UserID          primitive.ObjectID `bson:"user_id"                     json:"user_id"`
	RestaurantID    primitive.ObjectID `bson:"restaurant_id"               json:"restaurant_id"`
	Items           []CartItem         `bson:"items"                       json:"items"`
	Delivery        DeliveryDetails    `bson:"delivery"                    json:"delivery"`
	TotalAmount     int64              `bson:"total_amount"                json:"total_amount"`
	Status          OrderStatus        `bson:"status"                      json:"status"`
	StripeSessionID string             `bson:"stripe_session_id,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at"                  json:"created_at"`
}
