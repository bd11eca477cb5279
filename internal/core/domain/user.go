package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateSSO = errors.New("sso id already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrStorageUnavailable = errors.New("storage unavailable")

// User is a directory entry. ID is a surrogate key assigned by the directory
// on creation; SSOID is the externally issued identifier and is unique across
// all non-deleted records.
type User struct {
	ID           int       `json:"id" bson:"_id,omitempty"`
	SSOID        string    `json:"sso_id" bson:"sso_id"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	Email        string    `json:"email" bson:"email"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`

	// Profiles is the resolved profile set. Repositories return it fully
	// populated; callers never observe a partially loaded record.
	Profiles []Profile `json:"profiles" bson:"-"`
}

// HasProfile reports whether the user holds a profile of the given type.
func (u *User) HasProfile(profileType string) bool {
	for _, p := range u.Profiles {
		if p.Type == profileType {
			return true
		}
	}
	return false
}

// DisplayName is the field the directory listing orders by.
func (u *User) DisplayName() string {
	return u.FirstName
}
