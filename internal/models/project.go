package models

import (
	"time"
)

// Phase is the lifecycle stage of a project.
type Phase string

const (
	PhaseDesign      Phase = "design"
	PhaseDevelopment Phase = "development"
	PhaseTesting     Phase = "testing"
	PhaseDeployment  Phase = "deployment"
	PhaseComplete    Phase = "complete"
)

// Phases lists every valid phase in display order.
var Phases = []Phase{
	PhaseDesign,
	PhaseDevelopment,
	PhaseTesting,
	PhaseDeployment,
	PhaseComplete,
}

// Valid reports whether p is one of the enumerated phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseDesign, PhaseDevelopment, PhaseTesting, PhaseDeployment, PhaseComplete:
		return true
	}
	return false
}

type Project struct {
	ID               int        `json:"id"`
	UserID           int        `json:"user_id"` // immutable after creation
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Phase            Phase      `json:"phase"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Owner fields populated on search results via the users join.
	OwnerUsername string `json:"owner_username,omitempty"`
	OwnerEmail    string `json:"owner_email,omitempty"`
}

// ProjectForm is the typed add/edit submission. Dates stay strings here
// because an empty end date is legal; the validator parses them.
type ProjectForm struct {
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Phase            string `json:"phase"`
}

// SearchFilters are the optional public-search criteria. Zero values
// mean "no filter"; all values are bound as query parameters.
type SearchFilters struct {
	Title     string
	Username  string
	Phase     string
	StartDate string
}
