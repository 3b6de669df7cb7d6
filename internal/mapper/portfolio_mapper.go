package mapper

import (
	"portfolio-be/internal/dto"
	"portfolio-be/pkg/portfolio"
	"portfolio-be/pkg/slides"
	"portfolio-be/pkg/slug"
)

type PortfolioMapper struct {
	tourRoot   string
	isFeatured func(title string) bool
}

func NewPortfolioMapper(tourRoot string, isFeatured func(title string) bool) *PortfolioMapper {
	return &PortfolioMapper{tourRoot: tourRoot, isFeatured: isFeatured}
}

func (m *PortfolioMapper) ToProjectResponse(p portfolio.Project) dto.ProjectResponse {
	tags := p.TagList()
	if tags == nil {
		tags = []string{}
	}
	return dto.ProjectResponse{
		Id:          p.ID,
		Title:       p.Title,
		Slug:        slug.OrDefault(p.Title, "projeto"),
		Description: p.Description,
		URL:         p.URL,
		RepoURL:     p.RepoURL,
		Tags:        tags,
		Featured:    m.isFeatured != nil && m.isFeatured(p.Title),
	}
}

func (m *PortfolioMapper) ToProjectResponses(projects []portfolio.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, m.ToProjectResponse(p))
	}
	return out
}

func (m *PortfolioMapper) ToTourStep(app string, s slides.TourStep) dto.TourStepResponse {
	return dto.TourStepResponse{
		Label:       s.Label,
		Description: s.Description,
		Image:       slides.TourImageURL(m.tourRoot, app, s),
	}
}

func (m *PortfolioMapper) ToTourApp(app slides.TourApp) dto.TourAppResponse {
	steps := make([]dto.TourStepResponse, 0, len(app.Steps))
	for _, s := range app.Steps {
		steps = append(steps, m.ToTourStep(app.Key, s))
	}
	return dto.TourAppResponse{Key: app.Key, Name: app.Name, Steps: steps}
}

func (m *PortfolioMapper) ToPresentation(title string, p slides.Presentation) dto.PresentationResponse {
	rendered := make([]slides.Rendered, 0, len(p.Slides))
	for _, s := range p.Slides {
		rendered = append(rendered, slides.Render(s))
	}
	return dto.PresentationResponse{
		Title:    title,
		Heading:  p.Heading,
		Featured: p.Featured,
		Slides:   rendered,
	}
}

func (m *PortfolioMapper) ToBriefing(req dto.SubmitBriefingRequest) portfolio.Briefing {
	return portfolio.Briefing{
		CompanyName:     req.CompanyName,
		ContactName:     req.ContactName,
		Email:           req.Email,
		Phone:           req.Phone,
		ProjectName:     req.ProjectName,
		ProjectSummary:  req.ProjectSummary,
		ScopeFeatures:   req.ScopeFeatures,
		TargetPlatforms: req.TargetPlatforms,
		DeadlineWeeks:   req.DeadlineWeeks,
		BudgetRange:     req.BudgetRange,
	}
}
