package utils

import "github.com/google/uuid"

// UUIDGenerator produces unique ids for sync batches, new catalog items,
// and pairing sessions. Prefers time-ordered UUIDv7 so pending syncs sort
// naturally by creation time.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
