// Package session hosts one UI session per websocket connection. A session
// owns the dialog state of the portfolio page, the gallery discovery, the
// carousels and the presentation keymap, and pushes every change to the
// client.
//
// All session state is confined to a single actor goroutine. Commands,
// discovery results and hand-off timers are posted to it, so orchestrator
// listeners run on the actor as well and never need a lock of their own.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/internal/service"
	"portfolio-be/pkg/carousel"
	"portfolio-be/pkg/dialog"
	"portfolio-be/pkg/media"
	"portfolio-be/pkg/slides"

	"github.com/google/uuid"
)

// Error codes sent in error messages.
const (
	CodeBadCommand         = "BAD_COMMAND"
	CodeDialogOpen         = "DIALOG_OPEN"
	CodeDialogNotOpen      = "DIALOG_NOT_OPEN"
	CodeUnknownApp         = "UNKNOWN_APP"
	CodeGalleryUnavailable = "GALLERY_UNAVAILABLE"
)

// Presentation key bindings.
const (
	KeyNext  = "ArrowRight"
	KeyPrev  = "ArrowLeft"
	KeyClose = "Escape"
)

const inboxSize = 64

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("session: closed")

// Sink receives every message pushed to the client, in order.
type Sink interface {
	Send(msg dto.SessionMessage)
}

type SinkFunc func(msg dto.SessionMessage)

func (f SinkFunc) Send(msg dto.SessionMessage) { f(msg) }

// Deps are shared by every session of a Manager.
type Deps struct {
	Gallery        service.IGalleryService
	Repo           contract.SessionRepository
	Logger         logger.ILogger
	HandoffDelay   time.Duration
	FeaturedMarker string
	// Scheduler overrides the hand-off timer, mostly in tests.
	Scheduler dialog.Scheduler
}

type Session struct {
	id   uuid.UUID
	deps Deps
	sink Sink
	orch *dialog.Orchestrator

	ctx    context.Context
	cancel context.CancelFunc
	inbox  chan func()
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	// owned by the actor goroutine
	stopped         bool
	generation      uint64
	discoveryCancel context.CancelFunc
	gallery         *carousel.Controller[media.GalleryItem]
	presentation    *carousel.Controller[slides.Rendered]
	tourApp         dto.TourAppResponse
	tour            *carousel.Controller[dto.TourStepResponse]
	keymap          map[string]func() error
}

// New starts a session and announces its id and the closed state to sink.
// A non-nil snapshot restores the dialog it describes.
func New(id uuid.UUID, deps Deps, sink Sink, snapshot *entity.SessionSnapshot) *Session {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	inner := deps.Scheduler
	if inner == nil {
		inner = dialog.TimerScheduler{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     id,
		deps:   deps,
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
		inbox:  make(chan func(), inboxSize),
		done:   make(chan struct{}),
	}
	s.gallery = carousel.New[media.GalleryItem](s.galleryViewer())
	s.orch = dialog.New(dialog.Options{
		HandoffDelay:   deps.HandoffDelay,
		FeaturedMarker: deps.FeaturedMarker,
		Scheduler:      actorScheduler{inner: inner, post: s.post},
	})
	s.orch.Subscribe(s.onTransition)

	s.wg.Add(1)
	go s.run()

	_ = s.call(func() error {
		s.send(dto.SessionMessage{Type: dto.MsgSession, Session: id.String()})
		s.sendState(s.orch.State())
		if snapshot != nil {
			s.restore(snapshot)
		}
		return nil
	})
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current dialog state.
func (s *Session) State() dialog.Visibility { return s.orch.State() }

// Done is closed once the session stops, including when a reconnect takes
// over its id.
func (s *Session) Done() <-chan struct{} { return s.done }

// keymapInstalled reports whether the presentation keys are bound.
func (s *Session) keymapInstalled() bool {
	installed := false
	_ = s.call(func() error {
		installed = s.keymap != nil
		return nil
	})
	return installed
}

// Dispatch runs cmd on the session and returns once it has been applied.
// Rejected commands are also reported to the client as error messages.
func (s *Session) Dispatch(cmd dto.SessionCommand) error {
	return s.call(func() error {
		err := s.handle(cmd)
		if err != nil {
			s.sendError(err)
		}
		return err
	})
}

// Close cancels discovery and any pending hand-off and drops the keymap.
// The stored snapshot is kept so the client can resume.
func (s *Session) Close() {
	s.once.Do(func() {
		_ = s.call(func() error {
			s.stopped = true
			s.cancelDiscovery()
			s.keymap = nil
			s.orch.CloseAll()
			return nil
		})
		close(s.done)
		s.cancel()
		s.wg.Wait()
	})
}

func (s *Session) run() {
	defer s.wg.Done()
	for {
		select {
		case fn := <-s.inbox:
			fn()
			if s.stopped {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) post(fn func()) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.inbox <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) call(fn func() error) error {
	res := make(chan error, 1)
	ok := s.post(func() {
		if s.stopped {
			res <- ErrClosed
			return
		}
		res <- fn()
	})
	if !ok {
		return ErrClosed
	}
	select {
	case err := <-res:
		return err
	case <-s.done:
		return ErrClosed
	}
}

// actorScheduler runs timer callbacks on the actor goroutine.
type actorScheduler struct {
	inner dialog.Scheduler
	post  func(func()) bool
}

func (a actorScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return a.inner.AfterFunc(d, func() { a.post(f) })
}

func (s *Session) handle(cmd dto.SessionCommand) error {
	if err := serverutils.ValidateRequest(cmd); err != nil {
		return err
	}

	switch cmd.Type {
	case dto.CmdSelectProject:
		_, err := s.orch.SelectProject(cmd.Title)
		return err
	case dto.CmdOpenTour:
		_, err := s.orch.OpenTour()
		return err
	case dto.CmdCloseTour:
		return s.orch.CloseTour()
	case dto.CmdCloseGallery:
		return s.orch.CloseGallery()
	case dto.CmdClosePresentation:
		return s.orch.ClosePresentation()
	case dto.CmdOpenGallery:
		return s.orch.OpenGalleryFromPresentation()

	case dto.CmdGalleryPrev, dto.CmdGalleryNext, dto.CmdGallerySlide:
		if s.orch.State().Kind != dialog.Gallery {
			return dialog.ErrNotOpen
		}
		switch cmd.Type {
		case dto.CmdGalleryPrev:
			s.gallery.Prev()
		case dto.CmdGalleryNext:
			s.gallery.Next()
		default:
			s.gallery.OnExternalSlide(cmd.Index)
		}
		s.sendGalleryIndex()
		return nil

	case dto.CmdTourTab:
		if s.orch.State().Kind != dialog.Tour {
			return dialog.ErrNotOpen
		}
		app, err := s.deps.Gallery.TourApp(cmd.App)
		if err != nil {
			return errUnknownApp
		}
		s.showTourApp(app)
		s.saveSnapshot(s.orch.State())
		return nil
	case dto.CmdTourPrev, dto.CmdTourNext:
		if s.orch.State().Kind != dialog.Tour {
			return dialog.ErrNotOpen
		}
		if cmd.Type == dto.CmdTourPrev {
			s.tour.Prev()
		} else {
			s.tour.Next()
		}
		s.sendTour()
		return nil

	case dto.CmdKey:
		if binding, ok := s.keymap[cmd.Key]; ok {
			return binding()
		}
		return nil
	}
	return nil
}

var errUnknownApp = errors.New("session: unknown tour app")

// onTransition runs on the actor, under the orchestrator lock.
func (s *Session) onTransition(prev, next dialog.Visibility) {
	if s.stopped {
		return
	}
	s.leave(prev)
	s.sendState(next)
	s.enter(next)

	// A resumed client lands in the gallery that is about to open.
	saved := next
	if pending, ok := s.orch.PendingHandoffLocked(); ok {
		saved = pending
	}
	s.saveSnapshot(saved)
}

func (s *Session) enter(v dialog.Visibility) {
	switch v.Kind {
	case dialog.Tour:
		app := s.tourApp
		if app.Key == "" {
			apps := s.deps.Gallery.Tour()
			if len(apps) > 0 {
				app = apps[0]
			}
		}
		s.showTourApp(app)
	case dialog.Gallery:
		s.startDiscovery(v.Title)
	case dialog.Presentation:
		p := s.deps.Gallery.Presentation(v.Title)
		s.presentation = carousel.New[slides.Rendered](nil, p.Slides...)
		s.installKeymap()
		s.sendSlide()
	}
}

func (s *Session) leave(v dialog.Visibility) {
	switch v.Kind {
	case dialog.Tour:
		s.tour = nil
	case dialog.Gallery:
		s.cancelDiscovery()
		s.gallery = carousel.New[media.GalleryItem](s.galleryViewer())
	case dialog.Presentation:
		s.keymap = nil
		s.presentation = nil
	}
}

func (s *Session) installKeymap() {
	s.keymap = map[string]func() error{
		KeyNext: func() error {
			s.presentation.Next()
			s.sendSlide()
			return nil
		},
		KeyPrev: func() error {
			s.presentation.Prev()
			s.sendSlide()
			return nil
		},
		KeyClose: s.orch.ClosePresentation,
	}
}

func (s *Session) showTourApp(app dto.TourAppResponse) {
	s.tourApp = app
	s.tour = carousel.New[dto.TourStepResponse](nil, app.Steps...)
	s.sendTour()
}

func (s *Session) startDiscovery(title string) {
	s.cancelDiscovery()
	s.generation++
	gen := s.generation

	ctx, cancel := context.WithCancel(s.ctx)
	s.discoveryCancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		resp, err := s.deps.Gallery.Load(ctx, title)
		s.post(func() { s.applyDiscovery(ctx, gen, resp, err) })
	}()
}

// applyDiscovery installs a finished discovery unless a newer one started
// or the gallery closed in the meantime.
func (s *Session) applyDiscovery(ctx context.Context, gen uint64, resp dto.GalleryResponse, err error) {
	if s.stopped || gen != s.generation || ctx.Err() != nil {
		s.deps.Logger.Debug("SESSION", "Discarded stale discovery", map[string]interface{}{
			"session": s.id.String(),
			"key":     resp.Key,
		})
		return
	}
	s.cancelDiscovery()

	if err != nil {
		s.deps.Logger.Warn("SESSION", "Discovery failed", map[string]interface{}{
			"session": s.id.String(),
			"error":   err.Error(),
		})
		s.send(errorMessage(CodeGalleryUnavailable, "Galeria indisponível"))
		return
	}

	s.send(dto.SessionMessage{Type: dto.MsgGallery, Gallery: &resp})
	s.gallery.Reset(resp.Items)
}

func (s *Session) cancelDiscovery() {
	if s.discoveryCancel != nil {
		s.discoveryCancel()
		s.discoveryCancel = nil
	}
}

func (s *Session) restore(snap *entity.SessionSnapshot) {
	if snap.TourApp != "" {
		if app, err := s.deps.Gallery.TourApp(snap.TourApp); err == nil {
			s.tourApp = app
		}
	}
	kind, err := dialog.ParseKind(snap.Modal)
	if err != nil {
		s.deps.Logger.Warn("SESSION", "Ignoring corrupt snapshot", map[string]interface{}{
			"session": s.id.String(),
			"modal":   snap.Modal,
		})
		return
	}
	v := dialog.Visibility{Kind: kind}
	if kind == dialog.Gallery || kind == dialog.Presentation {
		v.Title = snap.Title
	}
	if _, err := s.orch.Restore(v); err != nil {
		s.deps.Logger.Warn("SESSION", "Snapshot restore rejected", map[string]interface{}{
			"session": s.id.String(),
			"error":   err.Error(),
		})
	}
}

func (s *Session) saveSnapshot(v dialog.Visibility) {
	if s.deps.Repo == nil {
		return
	}
	s.deps.Repo.Save(&entity.SessionSnapshot{
		Id:        s.id,
		Modal:     v.Kind.String(),
		Title:     v.Title,
		TourApp:   s.tourApp.Key,
		UpdatedAt: time.Now(),
	})
}

func (s *Session) galleryViewer() carousel.Viewer {
	return carousel.ViewerFunc(func(index int) {
		s.send(dto.SessionMessage{Type: dto.MsgSeek, Index: intPtr(index)})
	})
}

func (s *Session) send(msg dto.SessionMessage) {
	s.sink.Send(msg)
}

func (s *Session) sendState(v dialog.Visibility) {
	s.send(dto.SessionMessage{Type: dto.MsgState, Modal: &v})
}

// position is the part of a carousel that index, slide and tour messages
// report.
type position interface {
	Index() int
	Len() int
	AtStart() bool
	AtEnd() bool
}

func positionMessage(typ string, c position) dto.SessionMessage {
	atStart, atEnd := c.AtStart(), c.AtEnd()
	return dto.SessionMessage{
		Type:    typ,
		Index:   intPtr(c.Index()),
		Total:   intPtr(c.Len()),
		AtStart: &atStart,
		AtEnd:   &atEnd,
	}
}

func (s *Session) sendGalleryIndex() {
	msg := positionMessage(dto.MsgIndex, s.gallery)
	if item, ok := s.gallery.Current(); ok {
		msg.Item = &item
	}
	s.send(msg)
}

func (s *Session) sendSlide() {
	msg := positionMessage(dto.MsgSlide, s.presentation)
	if slide, ok := s.presentation.Current(); ok {
		msg.Slide = &slide
	}
	s.send(msg)
}

func (s *Session) sendTour() {
	msg := positionMessage(dto.MsgTour, s.tour)
	pos := &dto.TourPosition{App: s.tourApp.Key, Name: s.tourApp.Name}
	if step, ok := s.tour.Current(); ok {
		pos.Step = step
	}
	msg.Tour = pos
	s.send(msg)
}

func (s *Session) sendError(err error) {
	switch {
	case errors.Is(err, dialog.ErrDialogOpen):
		s.send(errorMessage(CodeDialogOpen, "Outra janela já está aberta"))
	case errors.Is(err, dialog.ErrNotOpen):
		s.send(errorMessage(CodeDialogNotOpen, "Janela não está aberta"))
	case errors.Is(err, errUnknownApp):
		s.send(errorMessage(CodeUnknownApp, "Aplicativo desconhecido"))
	default:
		msg := err.Error()
		if appErr, ok := serverutils.AsAppError(err); ok {
			msg = appErr.Message
		}
		s.send(errorMessage(CodeBadCommand, msg))
	}
}

func errorMessage(code, message string) dto.SessionMessage {
	return dto.SessionMessage{Type: dto.MsgError, Error: &dto.SessionError{Code: code, Message: message}}
}

func intPtr(i int) *int { return &i }
