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

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	o.CreatedAt = time.Now().UTC()
	res, err := s.colOrders.InsertOne(ctx, o)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid
	}
	return nil
}

func (s *Store) SetOrderSession(ctx context.Context, id primitive.ObjectID, sessionID string) error {
	_, err := s.colOrders.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"stripe_session_id": sessionID},
	})
	return err
}

// ConfirmOrderBySession flips pending→confirmed for the order tied to a
// completed checkout session. Idempotent: a replayed webhook matches nothing.
func (s *Store) ConfirmOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error) {
	res := s.colOrders.FindOneAndUpdate(ctx,
		bson.M{"stripe_session_id": sessionID, "status": domain.OrderPending},
		bson.M{"$set": bson.M{"status": domain.OrderConfirmed}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var o domain.Order
	if err := res.Decode(&o); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, restaurantID primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	res := s.colOrders.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "restaurant_id": restaurantID},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var o domain.Order
	if err := res.Decode(&o); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	return s.listOrders(ctx, bson.M{"user_id": userID})
}

func (s *Store) ListOrdersByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]domain.Order, error) {
	return s.listOrders(ctx, bson.M{"restaurant_id": restaurantID})
}

func (s *Store) listOrders(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	cur, err := s.colOrders.Find(ctx, filter,
		options.Find().SetLimit(100).SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Order
	for cur.Next(ctx) {
		var o domain.Order
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, cur.Err()
}
