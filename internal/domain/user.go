package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenGrant is a pending single-use token on a user record.
// A nil grant means no token is outstanding; consuming or expiring a
// grant removes the whole sub-document.
type TokenGrant struct {
	Token     string    `bson:"token" json:"-"`
	ExpiresAt time.Time `bson:"expires_at" json:"-"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"            json:"id"`
	Email          string             `bson:"email"                    json:"email"`
	PasswordHash   string             `bson:"password_hash"            json:"-"`
	FullName       string             `bson:"fullname"                 json:"fullname"`
	Contact        string             `bson:"contact"                  json:"contact"`
	Address        string             `bson:"address"                  json:"address"`
	City           string             `bson:"city"                     json:"city"`
	Country        string             `bson:"country"                  json:"country"`
	ProfilePicture string             `bson:"profile_picture"          json:"profile_picture"`
	Admin          bool               `bson:"admin"                    json:"admin"`
	Verified       bool               `bson:"verified"                 json:"is_verified"`
	Verification   *TokenGrant        `bson:"verification,omitempty"   json:"-"`
	PasswordReset  *TokenGrant        `bson:"password_reset,omitempty" json:"-"`
	LastLogin      time.Time          `bson:"last_login,omitempty"     json:"last_login"`
	CreatedAt      time.Time          `bson:"created_at"               json:"created_at"`
}
