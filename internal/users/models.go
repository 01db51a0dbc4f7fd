package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"solarline/solar-portal-backend/pkg/workflow"
)

// User is a portal account. Passwords are stored bcrypt-hashed and
// never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      workflow.Role      `bson:"role" json:"role"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Ref is the reduced identity shape embedded in listings, matching
// what assignment pickers and project views need.
type Ref struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
}
