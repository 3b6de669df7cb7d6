package session

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/mapper"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/memory"
	"portfolio-be/internal/service"
	"portfolio-be/pkg/dialog"
	"portfolio-be/pkg/media"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go-cache janitors live until their cache is collected
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

const waitFor = 2 * time.Second

// gatedDiscoverer serves canned galleries. A key with a gate blocks until
// the gate is closed, ignoring cancellation, so stale results do arrive.
type gatedDiscoverer struct {
	mu    sync.Mutex
	items map[string][]int
	gates map[string]chan struct{}
	calls []string
}

func newDiscoverer() *gatedDiscoverer {
	return &gatedDiscoverer{
		items: map[string][]int{
			"gerenciador-nr13": {1, 2, 3},
			"myrthes-costuras": {1, 2, 4},
			"projeto-b":        {1},
		},
		gates: map[string]chan struct{}{},
	}
}

func (d *gatedDiscoverer) gate(key string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan struct{})
	d.gates[key] = ch
	return ch
}

func (d *gatedDiscoverer) Discover(ctx context.Context, key string, steps []media.StepInfo) ([]media.GalleryItem, error) {
	d.mu.Lock()
	d.calls = append(d.calls, key)
	gate := d.gates[key]
	slots := d.items[key]
	d.mu.Unlock()

	if gate != nil {
		<-gate
	}

	out := make([]media.GalleryItem, 0, len(slots))
	for _, slot := range slots {
		item := media.GalleryItem{
			Slot:      slot,
			Original:  "/media/" + key + "/" + strconv.Itoa(slot) + ".jpg",
			Thumbnail: "/media/" + key + "/thumbs/" + strconv.Itoa(slot) + ".jpg",
		}
		if slot <= len(steps) {
			item.Description = steps[slot-1].Caption()
		}
		out = append(out, item)
	}
	return out, nil
}

func (d *gatedDiscoverer) Hints(key string) []string {
	return []string{"/media/" + key + "/1.jpg"}
}

// manualScheduler fires hand-offs on demand.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, f)
	return func() bool { return true }
}

// fire runs every scheduled callback, stopped or not; the session must
// ignore the stale ones.
func (m *manualScheduler) fire() {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = nil
	m.mu.Unlock()
	for _, f := range tasks {
		f()
	}
}

type recordingSink struct {
	mu   sync.Mutex
	msgs []dto.SessionMessage
}

func (r *recordingSink) Send(msg dto.SessionMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingSink) all() []dto.SessionMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.SessionMessage, len(r.msgs))
	copy(out, r.msgs)
	return out
}

func (r *recordingSink) ofType(typ string) []dto.SessionMessage {
	var out []dto.SessionMessage
	for _, m := range r.all() {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func (r *recordingSink) last(typ string) (dto.SessionMessage, bool) {
	msgs := r.ofType(typ)
	if len(msgs) == 0 {
		return dto.SessionMessage{}, false
	}
	return msgs[len(msgs)-1], true
}

type fixture struct {
	disc  *gatedDiscoverer
	sched *manualScheduler
	repo  *memory.SessionRepository
	deps  Deps
}

func newFixture() *fixture {
	disc := newDiscoverer()
	featured := func(t string) bool { return dialog.MatchesMarker(t, "myrthes") }
	gallery := service.NewGalleryService(disc, mapper.NewPortfolioMapper("/tour", featured), featured, logger.NewNopLogger())
	sched := &manualScheduler{}
	repo := memory.NewSessionRepository(time.Minute)
	return &fixture{
		disc:  disc,
		sched: sched,
		repo:  repo,
		deps: Deps{
			Gallery:        gallery,
			Repo:           repo,
			Logger:         logger.NewNopLogger(),
			FeaturedMarker: "myrthes",
			Scheduler:      sched,
		},
	}
}

func (f *fixture) open(t *testing.T) (*Session, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s := New(uuid.New(), f.deps, sink, nil)
	t.Cleanup(s.Close)
	return s, sink
}

func cmd(typ string) dto.SessionCommand { return dto.SessionCommand{Type: typ} }

func selectProject(title string) dto.SessionCommand {
	return dto.SessionCommand{Type: dto.CmdSelectProject, Title: title}
}

func waitGallery(t *testing.T, sink *recordingSink, n int) []dto.SessionMessage {
	t.Helper()
	require.Eventually(t, func() bool { return len(sink.ofType(dto.MsgGallery)) >= n }, waitFor, 5*time.Millisecond)
	return sink.ofType(dto.MsgGallery)
}

func TestSession_Announces(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	msgs := sink.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, dto.MsgSession, msgs[0].Type)
	assert.Equal(t, s.ID().String(), msgs[0].Session)
	assert.Equal(t, dto.MsgState, msgs[1].Type)
	assert.Equal(t, dialog.Closed(), *msgs[1].Modal)
}

func TestSession_GalleryNavigation(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	require.NoError(t, s.Dispatch(selectProject("Gerenciador NR-13")))
	assert.Equal(t, dialog.GalleryOpen("Gerenciador NR-13"), s.State())

	gallery := waitGallery(t, sink, 1)[0].Gallery
	assert.Equal(t, "gerenciador-nr13", gallery.Key)
	assert.True(t, gallery.Found)
	require.Len(t, gallery.Items, 3)
	assert.Equal(t, "Janela Principal — Visão geral do sistema e navegação entre módulos.", gallery.Items[0].Description)

	require.Eventually(t, func() bool { _, ok := sink.last(dto.MsgSeek); return ok }, waitFor, 5*time.Millisecond)
	seek, _ := sink.last(dto.MsgSeek)
	assert.Equal(t, 0, *seek.Index)

	require.NoError(t, s.Dispatch(cmd(dto.CmdGalleryNext)))
	require.NoError(t, s.Dispatch(cmd(dto.CmdGalleryNext)))
	require.NoError(t, s.Dispatch(cmd(dto.CmdGalleryNext)))
	idx, _ := sink.last(dto.MsgIndex)
	assert.Equal(t, 2, *idx.Index)
	assert.Equal(t, 3, *idx.Total)
	assert.False(t, *idx.AtStart)
	assert.True(t, *idx.AtEnd)
	seek, _ = sink.last(dto.MsgSeek)
	assert.Equal(t, 2, *seek.Index)

	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdGallerySlide, Index: 9}))
	idx, _ = sink.last(dto.MsgIndex)
	assert.Equal(t, 2, *idx.Index)

	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdGallerySlide, Index: 0}))
	require.NoError(t, s.Dispatch(cmd(dto.CmdGalleryPrev)))
	idx, _ = sink.last(dto.MsgIndex)
	assert.Equal(t, 0, *idx.Index)
	assert.True(t, *idx.AtStart)
	assert.False(t, *idx.AtEnd)
	assert.Equal(t, "/media/gerenciador-nr13/1.jpg", idx.Item.Original)

	require.NoError(t, s.Dispatch(cmd(dto.CmdCloseGallery)))
	assert.ErrorIs(t, s.Dispatch(cmd(dto.CmdGalleryNext)), dialog.ErrNotOpen)
}

func TestSession_EmptyGallery(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	require.NoError(t, s.Dispatch(selectProject("Sem Fotos")))
	gallery := waitGallery(t, sink, 1)[0].Gallery
	assert.False(t, gallery.Found)
	assert.Empty(t, gallery.Items)
	assert.Equal(t, []string{"/media/sem-fotos/1.jpg"}, gallery.Hints)
}

func TestSession_StaleDiscoveryDiscarded(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	gateA := f.disc.gate("gerenciador-nr13")
	require.NoError(t, s.Dispatch(selectProject("Gerenciador NR-13")))
	require.NoError(t, s.Dispatch(cmd(dto.CmdCloseGallery)))
	require.NoError(t, s.Dispatch(selectProject("Projeto B")))

	galleries := waitGallery(t, sink, 1)
	assert.Equal(t, "projeto-b", galleries[0].Gallery.Key)

	close(gateA)
	// A result delivered after its dialog was replaced must not surface.
	require.NoError(t, s.Dispatch(cmd(dto.CmdGalleryNext)))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Dispatch(cmd(dto.CmdGalleryNext)))

	galleries = sink.ofType(dto.MsgGallery)
	require.Len(t, galleries, 1)
	assert.Equal(t, "projeto-b", galleries[0].Gallery.Key)
	assert.Equal(t, dialog.GalleryOpen("Projeto B"), s.State())
}

func TestSession_DiscoveryDroppedWhenGalleryCloses(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	gate := f.disc.gate("gerenciador-nr13")
	require.NoError(t, s.Dispatch(selectProject("Gerenciador NR-13")))
	require.NoError(t, s.Dispatch(cmd(dto.CmdCloseGallery)))
	close(gate)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenTour)))
	assert.Empty(t, sink.ofType(dto.MsgGallery))
}

func TestSession_PresentationKeymap(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	assert.False(t, s.keymapInstalled())
	require.NoError(t, s.Dispatch(selectProject("Myrthes Costuras")))
	assert.Equal(t, dialog.PresentationOpen("Myrthes Costuras"), s.State())
	assert.True(t, s.keymapInstalled())

	slide, ok := sink.last(dto.MsgSlide)
	require.True(t, ok)
	assert.Equal(t, 0, *slide.Index)
	assert.Equal(t, 9, *slide.Total)
	assert.Equal(t, "Visão Geral", slide.Slide.Title)

	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdKey, Key: KeyNext}))
	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdKey, Key: KeyNext}))
	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdKey, Key: KeyPrev}))
	slide, _ = sink.last(dto.MsgSlide)
	assert.Equal(t, 1, *slide.Index)

	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdKey, Key: "Tab"}))
	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdKey, Key: KeyClose}))
	assert.Equal(t, dialog.Closed(), s.State())
	assert.False(t, s.keymapInstalled())

	before := len(sink.ofType(dto.MsgSlide))
	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdKey, Key: KeyNext}))
	assert.Len(t, sink.ofType(dto.MsgSlide), before)
}

func TestSession_FallbackPresentationSlide(t *testing.T) {
	f := newFixture()
	f.deps.FeaturedMarker = "nr-13"
	s, sink := f.open(t)

	require.NoError(t, s.Dispatch(selectProject("Gerenciador NR-13")))
	assert.Equal(t, dialog.PresentationOpen("Gerenciador NR-13"), s.State())

	slide, ok := sink.last(dto.MsgSlide)
	require.True(t, ok)
	assert.Equal(t, 1, *slide.Total)
}

func TestSession_MyrthesEndToEnd(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	require.NoError(t, s.Dispatch(selectProject("Myrthes Costuras")))
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenGallery)))
	assert.Equal(t, dialog.Closed(), s.State())
	assert.False(t, s.keymapInstalled())

	f.sched.fire()
	require.Eventually(t, func() bool {
		return s.State() == dialog.GalleryOpen("Myrthes Costuras")
	}, waitFor, 5*time.Millisecond)

	gallery := waitGallery(t, sink, 1)[0].Gallery
	assert.Equal(t, "myrthes-costuras", gallery.Key)
	require.Len(t, gallery.Items, 3)
	assert.Equal(t, 4, gallery.Items[2].Slot)
	assert.Contains(t, gallery.Items[0].Description, "Janela Principal — ")

	var modals []dialog.Visibility
	for _, m := range sink.ofType(dto.MsgState) {
		modals = append(modals, *m.Modal)
	}
	assert.Equal(t, []dialog.Visibility{
		dialog.Closed(),
		dialog.PresentationOpen("Myrthes Costuras"),
		dialog.Closed(),
		dialog.GalleryOpen("Myrthes Costuras"),
	}, modals)

	require.NoError(t, s.Dispatch(cmd(dto.CmdCloseGallery)))
	assert.Equal(t, dialog.Closed(), s.State())
}

func TestSession_HandoffCancelledByNewerTransition(t *testing.T) {
	f := newFixture()
	s, _ := f.open(t)

	require.NoError(t, s.Dispatch(selectProject("Myrthes Costuras")))
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenGallery)))
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenTour)))

	f.sched.fire()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Dispatch(cmd(dto.CmdTourNext)))
	assert.Equal(t, dialog.TourOpen(), s.State())
}

func TestSession_RealTimerHandoff(t *testing.T) {
	f := newFixture()
	f.deps.Scheduler = nil
	f.deps.HandoffDelay = 10 * time.Millisecond
	s, _ := f.open(t)

	require.NoError(t, s.Dispatch(selectProject("Myrthes Costuras")))
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenGallery)))
	require.Eventually(t, func() bool {
		return s.State() == dialog.GalleryOpen("Myrthes Costuras")
	}, waitFor, 5*time.Millisecond)
}

func TestSession_RejectsSecondDialog(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	require.NoError(t, s.Dispatch(selectProject("Gerenciador NR-13")))
	err := s.Dispatch(cmd(dto.CmdOpenTour))
	assert.ErrorIs(t, err, dialog.ErrDialogOpen)

	msg, ok := sink.last(dto.MsgError)
	require.True(t, ok)
	assert.Equal(t, CodeDialogOpen, msg.Error.Code)
	assert.Equal(t, dialog.GalleryOpen("Gerenciador NR-13"), s.State())
}

func TestSession_BadCommands(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	tests := []dto.SessionCommand{
		{Type: "fly"},
		{Type: dto.CmdSelectProject},
		{Type: dto.CmdTourTab},
		{Type: dto.CmdGallerySlide, Index: -1},
	}
	for _, c := range tests {
		require.Error(t, s.Dispatch(c), c.Type)
		msg, ok := sink.last(dto.MsgError)
		require.True(t, ok)
		assert.Equal(t, CodeBadCommand, msg.Error.Code)
	}
	assert.Equal(t, dialog.Closed(), s.State())
}

func TestSession_Tour(t *testing.T) {
	f := newFixture()
	s, sink := f.open(t)

	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenTour)))
	tour, ok := sink.last(dto.MsgTour)
	require.True(t, ok)
	assert.Equal(t, "nr13", tour.Tour.App)
	assert.Equal(t, 11, *tour.Total)
	assert.Equal(t, "/tour/nr13/main_window.png", tour.Tour.Step.Image)

	require.NoError(t, s.Dispatch(cmd(dto.CmdTourPrev)))
	require.NoError(t, s.Dispatch(cmd(dto.CmdTourNext)))
	tour, _ = sink.last(dto.MsgTour)
	assert.Equal(t, 1, *tour.Index)
	assert.False(t, *tour.AtStart)
	assert.False(t, *tour.AtEnd)

	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdTourTab, App: "myrthes"}))
	tour, _ = sink.last(dto.MsgTour)
	assert.Equal(t, "myrthes", tour.Tour.App)
	assert.Equal(t, 0, *tour.Index)
	assert.Equal(t, 9, *tour.Total)

	assert.Error(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdTourTab, App: "nope"}))
	msg, _ := sink.last(dto.MsgError)
	assert.Equal(t, CodeUnknownApp, msg.Error.Code)

	require.NoError(t, s.Dispatch(cmd(dto.CmdCloseTour)))
	assert.ErrorIs(t, s.Dispatch(cmd(dto.CmdTourNext)), dialog.ErrNotOpen)
}

func TestSession_CloseStopsEverything(t *testing.T) {
	f := newFixture()
	sink := &recordingSink{}
	s := New(uuid.New(), f.deps, sink, nil)

	gate := f.disc.gate("gerenciador-nr13")
	require.NoError(t, s.Dispatch(selectProject("Gerenciador NR-13")))

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	close(gate)
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Close did not return")
	}

	assert.ErrorIs(t, s.Dispatch(cmd(dto.CmdOpenTour)), ErrClosed)
	assert.False(t, s.keymapInstalled())
	s.Close()
}

func TestManager_Resume(t *testing.T) {
	f := newFixture()
	m := NewManager(f.deps)
	defer m.Shutdown()

	first := &recordingSink{}
	s, resumed := m.Open("", first)
	assert.False(t, resumed)
	require.NoError(t, s.Dispatch(selectProject("Gerenciador NR-13")))
	id := s.ID().String()
	m.Release(s)
	assert.Equal(t, 0, m.Active())

	second := &recordingSink{}
	s2, resumed := m.Open(id, second)
	assert.True(t, resumed)
	assert.Equal(t, id, s2.ID().String())
	assert.Equal(t, dialog.GalleryOpen("Gerenciador NR-13"), s2.State())
	waitGallery(t, second, 1)
	assert.Equal(t, 1, m.Active())
}

func TestManager_ResumeDuringHandoff(t *testing.T) {
	f := newFixture()
	m := NewManager(f.deps)
	defer m.Shutdown()

	s, _ := m.Open("", &recordingSink{})
	require.NoError(t, s.Dispatch(selectProject("Myrthes Costuras")))
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenGallery)))
	require.Equal(t, dialog.Closed(), s.State())

	snap, ok := f.repo.Get(s.ID())
	require.True(t, ok)
	assert.Equal(t, "gallery", snap.Modal)
	assert.Equal(t, "Myrthes Costuras", snap.Title)

	id := s.ID().String()
	m.Release(s)

	sink := &recordingSink{}
	s2, resumed := m.Open(id, sink)
	require.True(t, resumed)
	assert.Equal(t, dialog.GalleryOpen("Myrthes Costuras"), s2.State())
	assert.Equal(t, "myrthes-costuras", waitGallery(t, sink, 1)[0].Gallery.Key)
}

func TestManager_TakeoverStopsPrevious(t *testing.T) {
	f := newFixture()
	m := NewManager(f.deps)
	defer m.Shutdown()

	s, _ := m.Open("", &recordingSink{})
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenTour)))

	s2, resumed := m.Open(s.ID().String(), &recordingSink{})
	require.True(t, resumed)

	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("previous session still running")
	}
	assert.ErrorIs(t, s.Dispatch(cmd(dto.CmdCloseTour)), ErrClosed)
	assert.Equal(t, 1, m.Active())

	select {
	case <-s2.Done():
		t.Fatal("new session stopped")
	default:
	}
}

func TestManager_ResumeTourApp(t *testing.T) {
	f := newFixture()
	m := NewManager(f.deps)
	defer m.Shutdown()

	s, _ := m.Open("", &recordingSink{})
	require.NoError(t, s.Dispatch(cmd(dto.CmdOpenTour)))
	require.NoError(t, s.Dispatch(dto.SessionCommand{Type: dto.CmdTourTab, App: "myrthes"}))

	sink := &recordingSink{}
	s2, resumed := m.Open(s.ID().String(), sink)
	require.True(t, resumed)
	assert.Equal(t, dialog.TourOpen(), s2.State())
	tour, ok := sink.last(dto.MsgTour)
	require.True(t, ok)
	assert.Equal(t, "myrthes", tour.Tour.App)
}

func TestManager_UnknownResumeID(t *testing.T) {
	f := newFixture()
	m := NewManager(f.deps)
	defer m.Shutdown()

	s, resumed := m.Open("not-a-uuid", &recordingSink{})
	assert.False(t, resumed)
	assert.NotEqual(t, uuid.Nil, s.ID())

	s2, resumed := m.Open(uuid.NewString(), &recordingSink{})
	assert.False(t, resumed)
	assert.Equal(t, dialog.Closed(), s2.State())
	assert.Equal(t, 2, m.Active())
}
