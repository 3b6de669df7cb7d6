package portfolio

import "strings"

// Profile is the owner's public profile.
type Profile struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Project is a portfolio entry. Tags is comma-joined.
type Project struct {
	ID          int    `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	RepoURL     string `json:"repo_url,omitempty"`
	Tags        string `json:"tags,omitempty"`
}

// TagList splits Tags on commas, trimming blanks.
func (p Project) TagList() []string {
	var out []string
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type Skill struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category,omitempty"`
}

type Experience struct {
	ID          int    `json:"id,omitempty"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Period formats the date range the way the document prints it.
func (e Experience) Period() string {
	switch {
	case e.StartDate != "" && e.EndDate != "":
		return e.StartDate + " - " + e.EndDate
	case e.EndDate != "":
		return " - " + e.EndDate
	default:
		return e.StartDate
	}
}

// Briefing is a budget request submitted by a prospective client.
type Briefing struct {
	CompanyName     string `json:"company_name,omitempty"`
	ContactName     string `json:"contact_name,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ProjectName     string `json:"project_name"`
	ProjectSummary  string `json:"project_summary"`
	ScopeFeatures   string `json:"scope_features,omitempty"`
	TargetPlatforms string `json:"target_platforms,omitempty"`
	DeadlineWeeks   *int   `json:"deadline_weeks,omitempty"`
	BudgetRange     string `json:"budget_range,omitempty"`
}

// Briefing form defaults.
const (
	DefaultTargetPlatforms = "web"
	DefaultDeadlineWeeks   = 6
	DefaultBudgetRange     = "a definir"
)

// BriefingTemplate returns an empty briefing carrying the form defaults.
func BriefingTemplate() Briefing {
	weeks := DefaultDeadlineWeeks
	return Briefing{
		TargetPlatforms: DefaultTargetPlatforms,
		DeadlineWeeks:   &weeks,
		BudgetRange:     DefaultBudgetRange,
	}
}

// Snapshot groups every record the portfolio document is built from.
type Snapshot struct {
	Profile     *Profile
	Projects    []Project
	Skills      []Skill
	Experiences []Experience
}
