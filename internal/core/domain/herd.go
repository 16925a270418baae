package domain

import "time"

// AnimalStatus enumerates the lifecycle states of an animal.
type AnimalStatus string

const (
	AnimalStatusActive   AnimalStatus = "active"
	AnimalStatusSold     AnimalStatus = "sold"
	AnimalStatusDeceased AnimalStatus = "deceased"
)

// Valid reports whether the status is one of the known states.
func (s AnimalStatus) Valid() bool {
	switch s {
	case AnimalStatusActive, AnimalStatusSold, AnimalStatusDeceased:
		return true
	}
	return false
}

// Ranch represents a property where animals are kept.
type Ranch struct {
	ID        string
	Name      string
	Location  string
	OwnerID   string
	Hectares  float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Animal mirrors the persisted representation in the animals table.
// EarTag is unique within a ranch.
type Animal struct {
	ID        string
	RanchID   string
	EarTag    string
	Name      *string
	Breed     string
	Sex       string
	BirthDate *time.Time
	WeightKg  *float64
	Status    AnimalStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
