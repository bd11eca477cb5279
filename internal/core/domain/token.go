package domain

import (
	"errors"
	"time"
)

var ErrTokenNotFound = errors.New("login token not found")
var ErrSeriesExists = errors.New("login series already exists")

// LoginToken is one remember-me cookie lineage. Series is stable for the life
// of the lineage; Token is replaced on every successful silent login.
type LoginToken struct {
	Series   string    `json:"series" bson:"_id"`
	Token    string    `json:"-" bson:"token"`
	Username string    `json:"username" bson:"username"`
	LastUsed time.Time `json:"last_used" bson:"last_used"`
}
