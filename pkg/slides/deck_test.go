package slides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourApps(t *testing.T) {
	apps := TourApps()
	require.Len(t, apps, 2)
	assert.Equal(t, "nr13", apps[0].Key)
	assert.Len(t, apps[0].Steps, 11)
	assert.Equal(t, "myrthes", apps[1].Key)
	assert.Len(t, apps[1].Steps, 9)
	assert.Equal(t, "nr13", DefaultTourApp().Key)

	app, ok := FindTourApp("myrthes")
	require.True(t, ok)
	assert.Equal(t, "Myrthes Costuras", app.Name)

	_, ok = FindTourApp("other")
	assert.False(t, ok)
}

func TestTourImageURL(t *testing.T) {
	step := TourStep{Image: "login.png"}
	assert.Equal(t, "/tour/nr13/login.png", TourImageURL("/tour/", "nr13", step))
}

func TestPresentationFor(t *testing.T) {
	featured := PresentationFor("Myrthes Costuras", true)
	assert.True(t, featured.Featured)
	assert.Equal(t, "Apresentação — Myrthes Costuras", featured.Heading)
	require.Len(t, featured.Slides, 9)
	assert.Equal(t, "Visão Geral", featured.Slides[0].Title)
	assert.Equal(t, []string{"Offline-first", "Recibos", "Dashboard"}, featured.Slides[0].Chips)

	plain := PresentationFor("Gerenciador NR-13", false)
	assert.False(t, plain.Featured)
	require.Len(t, plain.Slides, 1)
	assert.Equal(t, "Gerenciador NR-13", plain.Slides[0].Title)
	assert.Equal(t, []string{"Sem conteúdo de apresentação disponível."}, plain.Slides[0].Bullets)

	untitled := PresentationFor("  ", false)
	assert.Equal(t, "Projeto", untitled.Heading)
}

func TestRenderInline(t *testing.T) {
	assert.Equal(t, "App desktop (<strong>PyQt6</strong>)", RenderInline("App desktop (**PyQt6**)"))
	assert.Equal(t, "<code>Ctrl+N</code> (novo pedido)", RenderInline("`Ctrl+N` (novo pedido)"))
	assert.NotContains(t, RenderInline("hi <script>alert(1)</script>"), "<script>")
}

func TestRender(t *testing.T) {
	s := Slide{
		Title:    "T",
		Bullets:  []string{"**a**"},
		Sections: []Section{{Title: "S", Bullets: []string{"b", "*c*"}}},
	}
	r := Render(s)
	assert.Equal(t, []string{"<strong>a</strong>"}, r.BulletsHTML)
	assert.Equal(t, [][]string{{"b", "<em>c</em>"}}, r.SectionsHTML)
}

func TestParse_RejectsEmptyTour(t *testing.T) {
	_, err := parse([]byte("featured: {}\n"))
	assert.Error(t, err)
}
