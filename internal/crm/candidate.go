package crm

// Candidate is the CRM candidate record as loaded from the store.
type Candidate struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	City            string `json:"city,omitempty"`
	CurrentTitle    string `json:"current_title,omitempty"`
	CurrentEmployer string `json:"current_employer,omitempty"`
	ResumeText      string `json:"resume_text,omitempty"`
	ResumeURL       string `json:"resume_url,omitempty"`
	LinkedinURL     string `json:"linkedin_url,omitempty"`

	// YearsOfExperience and Rating are nil when the field was never filled
	// in. Present-but-zero experience is scored differently from absent.
	YearsOfExperience *int     `json:"years_of_experience,omitempty"`
	Rating            *float64 `json:"rating,omitempty"`

	Tags    Tags     `json:"tags,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// AnalysisText returns the free text sent to the text-understanding service.
func (c *Candidate) AnalysisText() string {
	if c.ResumeText != "" {
		return c.ResumeText
	}
	return c.CurrentTitle
}

func (c *Candidate) HasContact() (email, phone bool) {
	return c.Email != "", c.Phone != ""
}
