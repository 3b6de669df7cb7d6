package service

import (
	"context"
	"errors"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/mapper"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/pkg/media"
	"portfolio-be/pkg/slides"
	"portfolio-be/pkg/slug"
)

// DefaultProjectKey names the media folder of an untitled project.
const DefaultProjectKey = "projeto"

// MediaDiscoverer is satisfied by *media.Discoverer.
type MediaDiscoverer interface {
	Discover(ctx context.Context, key string, steps []media.StepInfo) ([]media.GalleryItem, error)
	Hints(key string) []string
}

type IGalleryService interface {
	Load(ctx context.Context, title string) (dto.GalleryResponse, error)
	Slug(title string) dto.SlugResponse
	Tour() []dto.TourAppResponse
	TourApp(key string) (dto.TourAppResponse, error)
	Presentation(title string) dto.PresentationResponse
	IsFeatured(title string) bool
}

type galleryService struct {
	discoverer MediaDiscoverer
	mapper     *mapper.PortfolioMapper
	featured   func(title string) bool
	logger     logger.ILogger
}

func NewGalleryService(
	discoverer MediaDiscoverer,
	mapper *mapper.PortfolioMapper,
	featured func(title string) bool,
	logger logger.ILogger,
) IGalleryService {
	return &galleryService{
		discoverer: discoverer,
		mapper:     mapper,
		featured:   featured,
		logger:     logger,
	}
}

// Load runs one discovery for title. An empty gallery is not an error; the
// response then carries found=false and the expected file locations.
func (s *galleryService) Load(ctx context.Context, title string) (dto.GalleryResponse, error) {
	key := slug.OrDefault(title, DefaultProjectKey)

	items, err := s.discoverer.Discover(ctx, key, media.StepsForTitle(title))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Debug("GALLERY", "Discovery cancelled", map[string]interface{}{"key": key})
		}
		return dto.GalleryResponse{}, err
	}

	resp := dto.GalleryResponse{
		Title: title,
		Key:   key,
		Found: len(items) > 0,
		Items: items,
	}
	if !resp.Found {
		resp.Hints = s.discoverer.Hints(key)
	}

	s.logger.Debug("GALLERY", "Discovery finished", map[string]interface{}{"key": key, "items": len(items)})
	return resp, nil
}

func (s *galleryService) Slug(title string) dto.SlugResponse {
	return dto.SlugResponse{Title: title, Slug: slug.OrDefault(title, DefaultProjectKey)}
}

func (s *galleryService) Tour() []dto.TourAppResponse {
	apps := slides.TourApps()
	out := make([]dto.TourAppResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, s.mapper.ToTourApp(app))
	}
	return out
}

func (s *galleryService) TourApp(key string) (dto.TourAppResponse, error) {
	app, ok := slides.FindTourApp(key)
	if !ok {
		return dto.TourAppResponse{}, serverutils.NewNotFound("Unknown tour app: " + key)
	}
	return s.mapper.ToTourApp(app), nil
}

func (s *galleryService) Presentation(title string) dto.PresentationResponse {
	return s.mapper.ToPresentation(title, slides.PresentationFor(title, s.IsFeatured(title)))
}

func (s *galleryService) IsFeatured(title string) bool {
	return s.featured != nil && s.featured(title)
}
