package id

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Generator creates identifiers for ingestion runs and request correlation.
type Generator interface {
	NewID() (uuid.UUID, error)
}

// TimeOrderedGenerator issues UUIDv7 values so run ids sort by creation time.
type TimeOrderedGenerator struct{}

func NewTimeOrderedGenerator() *TimeOrderedGenerator {
	return &TimeOrderedGenerator{}
}

func (g *TimeOrderedGenerator) NewID() (uuid.UUID, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "generate uuid v7")
	}
	return value, nil
}

// Fixed always returns the same id; handy for tests and dry runs.
type Fixed uuid.UUID

func (f Fixed) NewID() (uuid.UUID, error) {
	return uuid.UUID(f), nil
}
