package model

import (
	"time"

	"github.com/google/uuid"
)

// Hazard types accepted from reporters and returned by the text/image
// classifiers.
const (
	TypeRoad             = "Road"
	TypeWater            = "Water"
	TypeGarbage          = "Garbage"
	TypeFlooding         = "Flooding"
	TypeFallenTree       = "Fallen Tree"
	TypePowerOutage      = "Power Outage"
	TypeGasLeak          = "Gas Leak"
	TypeStructuralDamage = "Structural Damage"
	TypeFireHazard       = "Fire Hazard"
	TypeOther            = "Other"
)

var HazardTypes = []string{
	TypeRoad, TypeWater, TypeGarbage, TypeFlooding, TypeFallenTree,
	TypePowerOutage, TypeGasLeak, TypeStructuralDamage, TypeFireHazard, TypeOther,
}

// ValidHazardType reports whether t is one of the fixed hazard types.
func ValidHazardType(t string) bool {
	for _, known := range HazardTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority labels produced by the priority predictor. PriorityLow is the
// fail-safe default when the predictor is unreachable.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// ValidPriority reports whether p is a known priority label.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	Address   string  `json:"address"`
}

// Reporter is the slice of the owning user exposed on hazard reads.
type Reporter struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

type Hazard struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Type              string     `json:"type"`
	Severity          string     `json:"severity"` // low, medium, high, critical
	Status            string     `json:"status"`   // reported, in-progress, resolved, dismissed
	Location          Location   `json:"location"`
	Images            []string   `json:"images"`
	ReportedBy        uuid.UUID  `json:"reportedBy"`
	Reporter          *Reporter  `json:"reporter,omitempty"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	ResolutionDetails string     `json:"resolutionDetails"`
	ResolutionDate    *time.Time `json:"resolutionDate,omitempty"`
	PredictedPriority string     `json:"predictedPriority"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type CreateHazardRequest struct {
	Title       string   `json:"title" validate:"required,min=5"`
	Description string   `json:"description" validate:"required,min=10"`
	Type        string   `json:"type" validate:"required"`
	Severity    string   `json:"severity" validate:"required,oneof=low medium high critical"`
	Location    Location `json:"location" validate:"required"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,imageref"`
	ImageBase64 string   `json:"imageBase64,omitempty"`

	// Set by the handler, never by the client.
	ReportedBy uuid.UUID `json:"-"`
}

type UpdateStatusRequest struct {
	Status            string     `json:"status" validate:"required,oneof=reported in-progress resolved dismissed"`
	ResolutionDetails string     `json:"resolutionDetails,omitempty"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
}

type NearbyParams struct {
	Latitude  float64
	Longitude float64
	RadiusKM  float64
}

type TypeCount struct {
	Type  string `json:"_id"`
	Count int    `json:"count"`
}

type HazardStats struct {
	TotalHazards int         `json:"totalHazards"`
	HazardByType []TypeCount `json:"hazardByType"`
}
