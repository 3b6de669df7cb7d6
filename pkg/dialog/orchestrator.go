// Package dialog coordinates the mutually exclusive modals of the portfolio
// page: the tour, a project gallery and a project presentation.
//
// The page state is one Visibility value, so two modals can never be open at
// once. Moving from a presentation to the gallery of the same project closes
// the presentation first and opens the gallery only after a settling delay,
// letting the first backdrop finish its exit before the second one renders.
package dialog

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultHandoffDelay separates closing the presentation from opening the
// gallery.
const DefaultHandoffDelay = 150 * time.Millisecond

// DefaultFeaturedMarker routes project titles to the presentation flow.
const DefaultFeaturedMarker = "myrthes"

var (
	// ErrDialogOpen is returned when a modal is requested while another one
	// is visible.
	ErrDialogOpen = errors.New("dialog: another dialog is open")
	// ErrNotOpen is returned when closing a modal that is not visible.
	ErrNotOpen = errors.New("dialog: dialog is not open")
)

// Scheduler runs f once after d. The returned stop function prevents f from
// running if it has not started yet and reports whether it did so.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Listener observes state changes. It is called with the orchestrator lock
// held and must not call back into the orchestrator.
type Listener func(prev, next Visibility)

// Options configures an Orchestrator.
type Options struct {
	HandoffDelay   time.Duration
	FeaturedMarker string
	Scheduler      Scheduler
}

// Orchestrator owns the modal state of one page.
type Orchestrator struct {
	mu        sync.Mutex
	state     Visibility
	delay     time.Duration
	marker    string
	scheduler Scheduler
	listeners []Listener

	pendingStop  func() bool
	pendingToken uint64
	pendingTitle string
}

// New returns an orchestrator with every modal closed.
func New(opts Options) *Orchestrator {
	if opts.HandoffDelay <= 0 {
		opts.HandoffDelay = DefaultHandoffDelay
	}
	if strings.TrimSpace(opts.FeaturedMarker) == "" {
		opts.FeaturedMarker = DefaultFeaturedMarker
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	return &Orchestrator{
		state:     Closed(),
		delay:     opts.HandoffDelay,
		marker:    strings.ToLower(strings.TrimSpace(opts.FeaturedMarker)),
		scheduler: opts.Scheduler,
	}
}

// Subscribe registers l for every subsequent state change.
func (o *Orchestrator) Subscribe(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// State returns the current modal state.
func (o *Orchestrator) State() Visibility {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// PendingHandoffLocked returns the gallery scheduled to open, if any. Only
// listeners may call it, since they already run under the orchestrator lock.
func (o *Orchestrator) PendingHandoffLocked() (Visibility, bool) {
	return o.pendingLocked()
}

func (o *Orchestrator) pendingLocked() (Visibility, bool) {
	if o.pendingStop == nil {
		return Closed(), false
	}
	return GalleryOpen(o.pendingTitle), true
}

// IsFeatured reports whether title opens the presentation instead of the
// gallery.
func (o *Orchestrator) IsFeatured(title string) bool {
	return MatchesMarker(title, o.marker)
}

// MatchesMarker is the case-insensitive substring test behind IsFeatured.
// An empty marker falls back to DefaultFeaturedMarker.
func MatchesMarker(title, marker string) bool {
	marker = strings.ToLower(strings.TrimSpace(marker))
	if marker == "" {
		marker = DefaultFeaturedMarker
	}
	return strings.Contains(strings.ToLower(title), marker)
}

// SelectProject opens the presentation for featured titles and the gallery
// for every other title.
func (o *Orchestrator) SelectProject(title string) (Visibility, error) {
	next := GalleryOpen(title)
	if o.IsFeatured(title) {
		next = PresentationOpen(title)
	}
	return o.open(next)
}

// OpenTour shows the tour.
func (o *Orchestrator) OpenTour() (Visibility, error) {
	return o.open(TourOpen())
}

// Restore reopens a previously saved state verbatim, bypassing the project
// routing of SelectProject. Restoring Closed is a no-op.
func (o *Orchestrator) Restore(v Visibility) (Visibility, error) {
	if !v.IsOpen() {
		return o.State(), nil
	}
	return o.open(v)
}

// CloseTour hides the tour.
func (o *Orchestrator) CloseTour() error { return o.close(Tour) }

// CloseGallery hides the gallery.
func (o *Orchestrator) CloseGallery() error { return o.close(Gallery) }

// ClosePresentation hides the presentation.
func (o *Orchestrator) ClosePresentation() error { return o.close(Presentation) }

// CloseAll hides whatever is open and drops a pending hand-off.
func (o *Orchestrator) CloseAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelPendingLocked()
	o.setLocked(Closed())
}

// OpenGalleryFromPresentation closes the open presentation now and opens the
// gallery of the same project once the hand-off delay has elapsed.
func (o *Orchestrator) OpenGalleryFromPresentation() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Kind != Presentation {
		return ErrNotOpen
	}
	o.cancelPendingLocked()

	title := o.state.Title
	o.pendingToken++
	token := o.pendingToken
	o.pendingTitle = title
	o.pendingStop = o.scheduler.AfterFunc(o.delay, func() {
		o.fireHandoff(token, title)
	})

	// Listeners see the scheduled gallery through PendingHandoffLocked.
	o.setLocked(Closed())
	return nil
}

func (o *Orchestrator) fireHandoff(token uint64, title string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	// A newer transition already cancelled this hand-off.
	if token != o.pendingToken || o.pendingStop == nil {
		return
	}
	o.pendingStop = nil
	o.pendingTitle = ""
	if o.state.IsOpen() {
		return
	}
	o.setLocked(GalleryOpen(title))
}

func (o *Orchestrator) open(next Visibility) (Visibility, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.IsOpen() {
		return o.state, ErrDialogOpen
	}
	o.cancelPendingLocked()
	o.setLocked(next)
	return next, nil
}

func (o *Orchestrator) close(kind Kind) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Kind != kind {
		return ErrNotOpen
	}
	o.cancelPendingLocked()
	o.setLocked(Closed())
	return nil
}

func (o *Orchestrator) cancelPendingLocked() {
	if o.pendingStop == nil {
		return
	}
	o.pendingStop()
	o.pendingStop = nil
	o.pendingToken++
	o.pendingTitle = ""
}

func (o *Orchestrator) setLocked(next Visibility) {
	prev := o.state
	if prev == next {
		return
	}
	o.state = next
	for _, l := range o.listeners {
		l(prev, next)
	}
}
