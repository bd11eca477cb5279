package handler

import "time"

// --- Request / Response types ---

type createUserRequest struct {
	SSOID     string `json:"sso_id"     validate:"required,min=3"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Profile   string `json:"profile"    validate:"omitempty,oneof=USER ADMIN DBA"`
}

type updateUserRequest struct {
	SSOID     string `json:"sso_id"     validate:"required,min=3"`
	Password  string `json:"password"   validate:"omitempty,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Profile   string `json:"profile"    validate:"omitempty,oneof=USER ADMIN DBA"`
}

type profileResponse struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

type userResponse struct {
	ID        int               `json:"id"`
	SSOID     string            `json:"sso_id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	Profiles  []profileResponse `json:"profiles"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type listUsersResponse struct {
	Items []userResponse `json:"items"`
	Total int            `json:"total"`
}

type ssoUniqueResponse struct {
	Unique bool `json:"unique"`
}
