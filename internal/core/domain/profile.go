package domain

import "errors"

const (
	ProfileUser  = "USER"
	ProfileAdmin = "ADMIN"
	ProfileDBA   = "DBA"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is a role reference users hold in a many-to-many relationship.
type Profile struct {
	ID   int    `json:"id" bson:"_id,omitempty"`
	Type string `json:"type" bson:"type"`
}
