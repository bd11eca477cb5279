package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

const keyBytes = 16

// randKeyGenerator produces URL-safe opaque values from crypto/rand.
type randKeyGenerator struct{}

// NewKeyGenerator returns the default series/token generator.
func NewKeyGenerator() randKeyGenerator {
	return randKeyGenerator{}
}

func (randKeyGenerator) Generate() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("keygen: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// systemClock reads the wall clock in UTC.
type systemClock struct{}

// NewClock returns the default clock.
func NewClock() systemClock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
