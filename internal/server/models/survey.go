package models

import "time"

// OrganisationInfo identifies the reporting organisation.
type OrganisationInfo struct {
	OrganisationName string `json:"organisationName"`
	Region           string `json:"region"`
	Email            string `json:"email"`
	Sector           string `json:"sector,omitempty"`
	Regions          int    `json:"regions,omitempty"`
}

// ProjectInfo describes the programme the survey reports on.
type ProjectInfo struct {
	ProjectName        string   `json:"projectName"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate,omitempty"`
	ProjectGoal        string   `json:"projectGoal"`
	TargetedConditions []string `json:"targetedConditions,omitempty"`
}

// Activity is one programme activity line item.
type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// SurveyPartner is one collaborating organisation named in a survey.
type SurveyPartner struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// SurveyContent holds the form sections shared by submitted surveys and
// in-flight drafts. Only OrganisationInfo and ProjectInfo are expected for
// a complete submission; everything else is optional.
type SurveyContent struct {
	OrganisationInfo  *OrganisationInfo `json:"organisationInfo,omitempty"`
	ProjectInfo       *ProjectInfo      `json:"projectInfo,omitempty"`
	ProjectActivities string            `json:"projectActivities,omitempty"`
	Activities        []Activity        `json:"activities,omitempty"`
	Partners          []SurveyPartner   `json:"partners,omitempty"`

	Risks                string `json:"risks,omitempty"`
	Sustainability       string `json:"sustainability,omitempty"`
	MonitoringEvaluation string `json:"monitoringEvaluation,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// CreatedBy records the submitting principal. Immutable after creation.
type CreatedBy struct {
	PrincipalID string    `json:"principalId"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
}

// Survey is one organisation's submitted programme report. Provenance
// fields never change after creation; content updates bump LastUpdated.
type Survey struct {
	ID             string        `json:"id"`
	Content        SurveyContent `json:"content"`
	CreatedBy      CreatedBy     `json:"createdBy"`
	SubmissionDate time.Time     `json:"submissionDate"`
	LastUpdated    time.Time     `json:"lastUpdated"`
	Status         string        `json:"status"` // always "submitted"
	Version        string        `json:"version"`
}

// Draft is the single in-flight, unsubmitted survey of one principal.
// Upserts are keyed on PrincipalID, so at most one draft exists per user.
type Draft struct {
	PrincipalID string        `json:"principalId"`
	Content     SurveyContent `json:"content"`
	CurrentStep string        `json:"currentStep"`
	Progress    int           `json:"progress"`
	LastSaved   time.Time     `json:"lastSaved"`
}
