package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID   `bson:"owner_id"      json:"owner_id"`
	Name         string               `bson:"name"          json:"name"`
	City         string               `bson:"city"          json:"city"`
	Country      string               `bson:"country"       json:"country"`
	DeliveryTime int                  `bson:"delivery_time" json:"delivery_time"` // minutes
	Cuisines     []string             `bson:"cuisines"      json:"cuisines"`
	ImageURL     string               `bson:"image_url"     json:"image_url"`
	MenuIDs      []primitive.ObjectID `bson:"menu_ids"      json:"-"`
	CreatedAt    time.Time            `bson:"created_at"    json:"created_at"`
}

type Menu struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RestaurantID primitive.ObjectID `bson:"restaurant_id" json:"restaurant_id"`
	Name         string             `bson:"name"          json:"name"`
	Description  string             `bson:"description"   json:"description"`
	Price        int64              `bson:"price"         json:"price"` // minor currency units
	ImageURL     string             `bson:"image_url"     json:"image_url"`
	CreatedAt    time.Time          `bson:"created_at"    json:"created_at"`
}
