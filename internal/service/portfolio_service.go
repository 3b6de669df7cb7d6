package service

import (
	"bytes"
	"context"
	"errors"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/mapper"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/pkg/pdf"
	"portfolio-be/pkg/portfolio"
)

// PortfolioUpstream is the subset of *portfolio.Client the services use.
type PortfolioUpstream interface {
	GetProfile(ctx context.Context) (*portfolio.Profile, error)
	ListProjects(ctx context.Context) ([]portfolio.Project, error)
	ListSkills(ctx context.Context) ([]portfolio.Skill, error)
	ListExperiences(ctx context.Context) ([]portfolio.Experience, error)
	DownloadDocument(ctx context.Context) ([]byte, error)
	SubmitBriefing(ctx context.Context, b portfolio.Briefing) (portfolio.Briefing, error)
}

type IPortfolioService interface {
	GetProfile(ctx context.Context) (*portfolio.Profile, error)
	ListProjects(ctx context.Context) ([]dto.ProjectResponse, error)
	ListSkills(ctx context.Context) ([]portfolio.Skill, error)
	ListExperiences(ctx context.Context) ([]portfolio.Experience, error)
	Document(ctx context.Context) ([]byte, error)
}

const (
	cacheKeyProfile     = "profile"
	cacheKeyProjects    = "projects"
	cacheKeySkills      = "skills"
	cacheKeyExperiences = "experiences"
)

type portfolioService struct {
	upstream PortfolioUpstream
	cache    contract.ContentCache
	ttl      time.Duration
	mapper   *mapper.PortfolioMapper
	logger   logger.ILogger
}

func NewPortfolioService(
	upstream PortfolioUpstream,
	cache contract.ContentCache,
	ttl time.Duration,
	mapper *mapper.PortfolioMapper,
	logger logger.ILogger,
) IPortfolioService {
	return &portfolioService{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		mapper:   mapper,
		logger:   logger,
	}
}

// cached reads key from the cache and falls back to fetch, storing its
// result. Cache failures are logged and otherwise ignored.
func cached[T any](ctx context.Context, s *portfolioService, key string, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	err := s.cache.Get(ctx, key, &out)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, contract.ErrCacheMiss) {
		s.logger.Warn("PORTFOLIO", "Content cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	out, err = fetch(ctx)
	if err != nil {
		s.logger.Error("PORTFOLIO", "Upstream request failed", map[string]interface{}{"key": key, "error": err.Error()})
		var zero T
		return zero, serverutils.NewUpstreamUnavailable(err)
	}

	if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
		s.logger.Warn("PORTFOLIO", "Content cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return out, nil
}

func (s *portfolioService) GetProfile(ctx context.Context) (*portfolio.Profile, error) {
	return cached(ctx, s, cacheKeyProfile, s.upstream.GetProfile)
}

func (s *portfolioService) ListProjects(ctx context.Context) ([]dto.ProjectResponse, error) {
	projects, err := s.projects(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToProjectResponses(projects), nil
}

func (s *portfolioService) projects(ctx context.Context) ([]portfolio.Project, error) {
	return cached(ctx, s, cacheKeyProjects, s.upstream.ListProjects)
}

func (s *portfolioService) ListSkills(ctx context.Context) ([]portfolio.Skill, error) {
	return cached(ctx, s, cacheKeySkills, s.upstream.ListSkills)
}

func (s *portfolioService) ListExperiences(ctx context.Context) ([]portfolio.Experience, error) {
	return cached(ctx, s, cacheKeyExperiences, s.upstream.ListExperiences)
}

// Document prefers the upstream rendition and renders locally when the
// upstream cannot produce one.
func (s *portfolioService) Document(ctx context.Context) ([]byte, error) {
	doc, err := s.upstream.DownloadDocument(ctx)
	if err == nil && bytes.HasPrefix(doc, []byte("%PDF")) {
		return doc, nil
	}
	if err != nil {
		s.logger.Warn("PORTFOLIO", "Upstream document unavailable, rendering locally", map[string]interface{}{"error": err.Error()})
	} else {
		s.logger.Warn("PORTFOLIO", "Upstream document is not a PDF, rendering locally", map[string]interface{}{"bytes": len(doc)})
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return pdf.Bytes(snap)
}

func (s *portfolioService) snapshot(ctx context.Context) (portfolio.Snapshot, error) {
	var snap portfolio.Snapshot
	var err error

	if snap.Profile, err = s.GetProfile(ctx); err != nil {
		return snap, err
	}
	if snap.Projects, err = s.projects(ctx); err != nil {
		return snap, err
	}
	if snap.Skills, err = s.ListSkills(ctx); err != nil {
		return snap, err
	}
	if snap.Experiences, err = s.ListExperiences(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}
