package model

import (
	"fmt"
	"time"
)

// TreatmentStatus tracks the lifecycle of a treatment plan.
type TreatmentStatus string

const (
	// StatusPlanned is the initial state of a newly created plan.
	StatusPlanned TreatmentStatus = "planned"

	// StatusActive means dosing is underway.
	StatusActive TreatmentStatus = "active"

	// StatusCompleted means the planned course finished.
	StatusCompleted TreatmentStatus = "completed"

	// StatusDiscontinued means the course was stopped early.
	StatusDiscontinued TreatmentStatus = "discontinued"
)

// treatmentStatuses is the closed set of treatment statuses.
var treatmentStatuses = map[TreatmentStatus]bool{
	StatusPlanned:      true,
	StatusActive:       true,
	StatusCompleted:    true,
	StatusDiscontinued: true,
}

// TreatmentStatuses returns all treatment statuses in lifecycle order.
func TreatmentStatuses() []TreatmentStatus {
	return []TreatmentStatus{StatusPlanned, StatusActive, StatusCompleted, StatusDiscontinued}
}

// ParseTreatmentStatus validates a treatment status string.
func ParseTreatmentStatus(s string) (TreatmentStatus, error) {
	st := TreatmentStatus(s)
	if !treatmentStatuses[st] {
		return "", &ValidationError{
			Field:   "status",
			Value:   s,
			Message: fmt.Sprintf("unknown treatment status (expected one of %v)", TreatmentStatuses()),
		}
	}
	return st, nil
}

// String returns the canonical spelling of the status.
func (s TreatmentStatus) String() string {
	return string(s)
}

// TreatmentPlan is a dosing plan referencing a nanoparticle formulation.
//
// The estimation core never owns this entity's lifecycle; it only supplies
// the dosing calculations that the persistence layer stores alongside it.
type TreatmentPlan struct {
	// ID is the unique identifier (TX_XXXXXXXX).
	ID string `json:"id"`

	// PatientID identifies the patient. Treated as sensitive: the logging
	// layer redacts it (see internal/log).
	PatientID string `json:"patient_id"`

	// NanoparticleID references the formulation used for dosing.
	NanoparticleID string `json:"nanoparticle_id"`

	// DoseMgKg is the dose in milligrams per kilogram of body weight.
	DoseMgKg float64 `json:"dose_mg_kg"`

	// Route is the delivery route.
	Route Route `json:"route"`

	// Frequency is a free-text dosing frequency (e.g., "daily", "weekly").
	Frequency string `json:"frequency"`

	// DurationDays is the planned length of the course.
	DurationDays int `json:"duration_days"`

	// Status is the lifecycle state of the plan.
	Status TreatmentStatus `json:"status"`

	// EfficacyPct is the observed efficacy in percent, updated during the course.
	EfficacyPct float64 `json:"efficacy_pct"`

	// SideEffects lists observed side effects.
	SideEffects []string `json:"side_effects,omitempty"`

	// CreatedAt is when the plan was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the plan was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTreatmentPlan creates a treatment plan in the planned state.
// The route string is parsed against the closed enumeration, and the dose
// and duration must be positive.
func NewTreatmentPlan(patientID, nanoparticleID string, doseMgKg float64, routeStr, frequency string, durationDays int) (*TreatmentPlan, error) {
	route, err := ParseRoute(routeStr)
	if err != nil {
		return nil, err
	}
	if patientID == "" {
		return nil, &ValidationError{Field: "patient_id", Value: patientID, Message: "must not be empty"}
	}
	if doseMgKg <= 0 {
		return nil, &ValidationError{Field: "dose_mg_kg", Value: doseMgKg, Message: "must be positive"}
	}
	if durationDays <= 0 {
		return nil, &ValidationError{Field: "duration_days", Value: durationDays, Message: "must be positive"}
	}

	now := time.Now()
	return &TreatmentPlan{
		ID:             NewTreatmentID(),
		PatientID:      patientID,
		NanoparticleID: nanoparticleID,
		DoseMgKg:       doseMgKg,
		Route:          route,
		Frequency:      frequency,
		DurationDays:   durationDays,
		Status:         StatusPlanned,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
