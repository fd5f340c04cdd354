package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plateful/plateful/internal/domain"
)

func (s *Store) AddMenu(ctx context.Context, m *domain.Menu) error {
	m.CreatedAt = time.Now().UTC()
	res, err := s.colMenus.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

func (s *Store) FindMenuByID(ctx context.Context, id primitive.ObjectID) (*domain.Menu, error) {
	var m domain.Menu
	err := s.colMenus.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &m, err
}

// UpdateMenu is scoped to the restaurant so an admin can only edit items
// on their own menu.
func (s *Store) UpdateMenu(ctx context.Context, id, restaurantID primitive.ObjectID, fields bson.M) (*domain.Menu, error) {
	res := s.colMenus.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "restaurant_id": restaurantID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var m domain.Menu
	if err := res.Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListMenusByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]domain.Menu, error) {
	cur, err := s.colMenus.Find(ctx,
		bson.M{"restaurant_id": restaurantID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Menu
	for cur.Next(ctx) {
		var m domain.Menu
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}
