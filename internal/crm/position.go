package crm

import "time"

// Position is a job posting owned by an employer.
type Position struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	EmployerName string    `json:"employer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Active       bool      `json:"active"`

	Tags    Tags     `json:"tags,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// AnalysisText returns the free text sent to the text-understanding service.
func (p *Position) AnalysisText() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Title
}

type Positions struct {
	Items []*Position
}

func (p *Positions) Len() int {
	return len(p.Items)
}

func (p *Positions) FindByID(id int64) *Position {
	for _, pos := range p.Items {
		if pos.ID == id {
			return pos
		}
	}
	return nil
}
