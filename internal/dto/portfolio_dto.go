package dto

type ProjectResponse struct {
	Id          int      `json:"id,omitempty"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	RepoURL     string   `json:"repo_url,omitempty"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type SubmitBriefingRequest struct {
	CompanyName     string `json:"company_name"`
	ContactName     string `json:"contact_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ProjectName     string `json:"project_name"`
	ProjectSummary  string `json:"project_summary"`
	ScopeFeatures   string `json:"scope_features"`
	TargetPlatforms string `json:"target_platforms"`
	DeadlineWeeks   *int   `json:"deadline_weeks"`
	BudgetRange     string `json:"budget_range"`
}
