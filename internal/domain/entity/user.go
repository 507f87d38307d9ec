package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a user role. Roles form a closed set.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// User is an account. Password holds the bcrypt hash and is never serialized
// in responses. Self-registered accounts start inactive until an admin
// validates them.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username      string             `bson:"username" json:"username"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	Roles         []Role             `bson:"roles" json:"roles"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	LastUpdatedBy primitive.ObjectID `bson:"lastUpdatedBy,omitempty" json:"lastUpdatedBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
