package bootstrap

import (
	"context"
	"log"
	"net/http"

	"portfolio-be/internal/config"
	"portfolio-be/internal/controller"
	"portfolio-be/internal/handler"
	"portfolio-be/internal/mapper"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/mailer"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/internal/repository/implementation"
	"portfolio-be/internal/repository/memory"
	"portfolio-be/internal/service"
	"portfolio-be/internal/session"
	"portfolio-be/pkg/dialog"
	"portfolio-be/pkg/events"
	"portfolio-be/pkg/media"
	"portfolio-be/pkg/portfolio"

	pktNats "portfolio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	HealthController    controller.IHealthController
	PortfolioController controller.IPortfolioController
	BriefingController  controller.IBriefingController
	GalleryController   controller.IGalleryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	SessionHandler *handler.SessionHandler
	SessionManager *session.Manager

	Logger logger.ILogger

	closers []func()
}

// Option overrides a dependency, mostly in tests.
type Option func(*options)

type options struct {
	upstream service.PortfolioUpstream
	prober   media.Prober
	logger   logger.ILogger
}

func WithUpstream(u service.PortfolioUpstream) Option {
	return func(o *options) { o.upstream = u }
}

func WithProber(p media.Prober) Option {
	return func(o *options) { o.prober = p }
}

func WithLogger(l logger.ILogger) Option {
	return func(o *options) { o.logger = l }
}

func NewContainer(cfg *config.Config, opts ...Option) *Container {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	// 1. Core Facades
	sysLogger := o.logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c := &Container{Logger: sysLogger}

	upstream := o.upstream
	if upstream == nil {
		upstream = portfolio.NewClient(cfg.Upstream.APIURL, cfg.Upstream.Timeout)
	}

	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.SMTP.NotifyTo,
		)
	} else {
		log.Printf("[INFO] SMTP not configured, briefing notifications disabled")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 2.5 Infrastructure
	// NATS
	var forwarder pktNats.IPublisher
	if cfg.Events.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL, cfg.Events.Stream)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// Cache
	var contentCache contract.ContentCache
	if cfg.Cache.Driver == "redis" {
		opt, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Cache.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		contentCache = implementation.NewRedisContentCache(rdb)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	} else {
		contentCache = memory.NewContentCache(cfg.Cache.ContentTTL)
	}
	sessionRepo := memory.NewSessionRepository(cfg.Cache.SessionTTL)

	// 3. Services
	marker := cfg.Dialog.FeaturedMarker
	isFeatured := func(title string) bool { return dialog.MatchesMarker(title, marker) }
	portfolioMapper := mapper.NewPortfolioMapper(cfg.Gallery.TourRoot, isFeatured)

	prober := o.prober
	if prober == nil {
		prober = media.NewHTTPProber(&http.Client{}, cfg.Gallery.ProbeTimeout)
	}
	mediaOpts := []media.Option{media.WithConcurrency(cfg.Gallery.ProbeConcurrency)}
	if fetchRoot, err := cfg.Gallery.MediaFetchRoot(); err != nil {
		log.Printf("[WARN] Gallery media root is not fetchable: %v", err)
	} else {
		mediaOpts = append(mediaOpts, media.WithFetchRoot(fetchRoot))
	}
	discoverer := media.NewDiscoverer(cfg.Gallery.MediaRoot, prober, mediaOpts...)

	publisherService := service.NewPublisherService(events.BriefingSubmittedTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		events.BriefingSubmittedTopic,
		emailService,
		forwarder,
		sysLogger,
	)

	portfolioService := service.NewPortfolioService(upstream, contentCache, cfg.Cache.ContentTTL, portfolioMapper, sysLogger)
	briefingService := service.NewBriefingService(upstream, publisherService, portfolioMapper, sysLogger)
	galleryService := service.NewGalleryService(discoverer, portfolioMapper, isFeatured, sysLogger)

	// 3.5 UI Sessions
	wsLogger := sysLogger
	if o.logger == nil {
		wsLogger = logger.NewIsolatedLogger("logs/session.log")
	}
	c.SessionManager = session.NewManager(session.Deps{
		Gallery:        galleryService,
		Repo:           sessionRepo,
		Logger:         wsLogger,
		HandoffDelay:   cfg.Dialog.HandoffDelay,
		FeaturedMarker: marker,
	})
	c.SessionHandler = handler.NewSessionHandler(c.SessionManager, wsLogger)

	// 4. Controllers
	c.HealthController = controller.NewHealthController()
	c.PortfolioController = controller.NewPortfolioController(portfolioService)
	c.BriefingController = controller.NewBriefingController(briefingService)
	c.GalleryController = controller.NewGalleryController(galleryService)

	return c
}

// Close stops live sessions and releases bus, broker and cache connections.
func (c *Container) Close() {
	c.SessionManager.Shutdown()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
