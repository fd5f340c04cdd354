package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plateful/plateful/internal/domain"
)

var ErrRestaurantExists = errors.New("restaurant already exists for this owner")

func (s *Store) CreateRestaurant(ctx context.Context, r *domain.Restaurant) error {
	r.CreatedAt = time.Now().UTC()
	if r.MenuIDs == nil {
		r.MenuIDs = []primitive.ObjectID{}
	}
	res, err := s.colRestaurants.InsertOne(ctx, r)
	if IsDup(err) {
		return ErrRestaurantExists
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.ID = oid
	}
	return nil
}

func (s *Store) FindRestaurantByOwner(ctx context.Context, owner primitive.ObjectID) (*domain.Restaurant, error) {
	var r domain.Restaurant
	err := s.colRestaurants.FindOne(ctx, bson.M{"owner_id": owner}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &r, err
}

func (s *Store) FindRestaurantByID(ctx context.Context, id primitive.ObjectID) (*domain.Restaurant, error) {
	var r domain.Restaurant
	err := s.colRestaurants.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &r, err
}

func (s *Store) UpdateRestaurant(ctx context.Context, owner primitive.ObjectID, fields bson.M) (*domain.Restaurant, error) {
	res := s.colRestaurants.FindOneAndUpdate(ctx,
		bson.M{"owner_id": owner},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var r domain.Restaurant
	if err := res.Decode(&r); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) PushMenu(ctx context.Context, restaurantID, menuID primitive.ObjectID) error {
	_, err := s.colRestaurants.UpdateByID(ctx, restaurantID, bson.M{
		"$push": bson.M{"menu_ids": menuID},
	})
	return err
}

// SearchRestaurants matches the query case-insensitively against name,
// city and country, optionally narrowed to the given cuisines.
func (s *Store) SearchRestaurants(ctx context.Context, query string, cuisines []string) ([]domain.Restaurant, error) {
	filter := bson.M{}
	if query != "" {
		rx := primitive.Regex{Pattern: query, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"city": rx},
			bson.M{"country": rx},
			bson.M{"cuisines": rx},
		}
	}
	if len(cuisines) > 0 {
		filter["cuisines"] = bson.M{"$in": cuisines}
	}

	cur, err := s.colRestaurants.Find(ctx, filter,
		options.Find().SetLimit(50).SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Restaurant
	for cur.Next(ctx) {
		var r domain.Restaurant
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}
