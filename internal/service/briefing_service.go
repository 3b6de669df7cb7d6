package service

import (
	"context"
	"encoding/json"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/mapper"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/pkg/events"
	"portfolio-be/pkg/portfolio"
)

type IBriefingService interface {
	Template() portfolio.Briefing
	Submit(ctx context.Context, req *dto.SubmitBriefingRequest) (portfolio.Briefing, error)
}

type briefingService struct {
	upstream         PortfolioUpstream
	publisherService IPublisherService
	mapper           *mapper.PortfolioMapper
	logger           logger.ILogger
	now              func() time.Time
}

func NewBriefingService(
	upstream PortfolioUpstream,
	publisherService IPublisherService,
	mapper *mapper.PortfolioMapper,
	logger logger.ILogger,
) IBriefingService {
	return &briefingService{
		upstream:         upstream,
		publisherService: publisherService,
		mapper:           mapper,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *briefingService) Template() portfolio.Briefing {
	return portfolio.BriefingTemplate()
}

// Submit forwards the briefing as-is. A failed submission is reported with
// the original form so the client can retry by hand.
func (s *briefingService) Submit(ctx context.Context, req *dto.SubmitBriefingRequest) (portfolio.Briefing, error) {
	briefing := s.mapper.ToBriefing(*req)

	stored, err := s.upstream.SubmitBriefing(ctx, briefing)
	if err != nil {
		s.logger.Error("BRIEFING", "Briefing submission failed", map[string]interface{}{
			"project_name": briefing.ProjectName,
			"error":        err.Error(),
		})
		return portfolio.Briefing{}, serverutils.NewSubmissionFailed(req, err)
	}

	payload, err := json.Marshal(events.NewBriefingSubmitted(stored, s.now()))
	if err == nil {
		err = s.publisherService.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn("BRIEFING", "Failed to publish briefing event", map[string]interface{}{"error": err.Error()})
	}

	s.logger.Info("BRIEFING", "Briefing submitted", map[string]interface{}{"project_name": stored.ProjectName})
	return stored, nil
}
