package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plateful/plateful/internal/log"
)

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database

	colUsers       *mongo.Collection
	colRestaurants *mongo.Collection
	colMenus       *mongo.Collection
	colOrders      *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:         cli,
		DB:             db,
		colUsers:       db.Collection("users"),
		colRestaurants: db.Collection("restaurants"),
		colMenus:       db.Collection("menus"),
		colOrders:      db.Collection("orders"),
	}, nil
}

// Connect dials mongo with a bounded retry loop: startup is the only
// place we retry at all, request paths never do.
func Connect(ctx context.Context, uri, dbname string, attempts int, delay time.Duration) (*Store, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		store, err := NewStore(ctx, uri, dbname)
		if err == nil {
			return store, nil
		}
		lastErr = err
		log.Errorf("mongo connect attempt %d/%d: %v", i+1, attempts, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.colUsers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			// token lookups during verify-email / reset-password
			Keys:    bson.D{{Key: "verification.token", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("verification_token"),
		},
		{
			Keys:    bson.D{{Key: "password_reset.token", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("reset_token"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.colRestaurants.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_owner"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_asc"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.colMenus.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "restaurant_id", Value: 1}},
		Options: options.Index().SetName("by_restaurant"),
	})
	if err != nil {
		return err
	}

	_, err = s.colOrders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("restaurant_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "stripe_session_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("by_stripe_session"),
		},
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
