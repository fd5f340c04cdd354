package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plateful/plateful/internal/domain"
)

var ErrEmailTaken = errors.New("email already registered")

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = NormalizeEmail(u.Email)
	u.CreatedAt = time.Now().UTC()
	res, err := s.colUsers.InsertOne(ctx, u)
	if IsDup(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

// FindUserByVerification matches only unexpired codes: the expiry gate
// lives in the query, so an expired code never resolves to a user.
func (s *Store) FindUserByVerification(ctx context.Context, code string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{
		"verification.token":      code,
		"verification.expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (s *Store) FindUserByReset(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{
		"password_reset.token":      token,
		"password_reset.expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

// MarkVerified flips the one-way unverified→verified transition and
// drops the consumed grant in the same update.
func (s *Store) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.colUsers.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"verified": true},
		"$unset": bson.M{"verification": ""},
	})
	return err
}

func (s *Store) SetPasswordReset(ctx context.Context, id primitive.ObjectID, grant domain.TokenGrant) error {
	_, err := s.colUsers.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"password_reset": grant},
	})
	return err
}

// ReplacePassword swaps in the new hash and clears the reset grant, so a
// consumed token can never match again.
func (s *Store) ReplacePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.colUsers.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"password_hash": hash},
		"$unset": bson.M{"password_reset": ""},
	})
	return err
}

func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.colUsers.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"last_login": time.Now().UTC()},
	})
	return err
}

func (s *Store) SetAdmin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.colUsers.UpdateByID(ctx, id, bson.M{"$set": bson.M{"admin": true}})
	return err
}

func (s *Store) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.User, error) {
	res := s.colUsers.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var u domain.User
	if err := res.Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if IsDup(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}
