// Package slides holds the static slide content of the tour and the project
// presentation and renders it for the client.
package slides

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// Section is a titled group of bullets inside a slide.
type Section struct {
	Title   string   `yaml:"title" json:"title"`
	Bullets []string `yaml:"bullets" json:"bullets"`
}

// Slide is one page of a presentation. Bullets are markdown.
type Slide struct {
	Title    string    `yaml:"title" json:"title"`
	Bullets  []string  `yaml:"bullets,omitempty" json:"bullets,omitempty"`
	Sections []Section `yaml:"sections,omitempty" json:"sections,omitempty"`
	Chips    []string  `yaml:"chips,omitempty" json:"chips,omitempty"`
}

// TourStep is one screen of a tour app.
type TourStep struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Image       string `yaml:"image" json:"image"`
}

// TourApp is one tab of the tour.
type TourApp struct {
	Key   string     `yaml:"key" json:"key"`
	Name  string     `yaml:"name" json:"name"`
	Steps []TourStep `yaml:"steps" json:"steps"`
}

// Presentation is the deck shown for a project.
type Presentation struct {
	Heading  string  `json:"heading"`
	Featured bool    `json:"featured"`
	Slides   []Slide `json:"slides"`
}

type catalog struct {
	Tour     []TourApp `yaml:"tour"`
	Featured struct {
		Heading string  `yaml:"heading"`
		Slides  []Slide `yaml:"slides"`
	} `yaml:"featured"`
	Fallback Slide `yaml:"fallback"`
}

//go:embed decks.yaml
var decksYAML []byte

var decks = mustParse(decksYAML)

func mustParse(data []byte) catalog {
	c, err := parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

func parse(data []byte) (catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return catalog{}, fmt.Errorf("parse slide decks: %w", err)
	}
	if len(c.Tour) == 0 {
		return catalog{}, fmt.Errorf("parse slide decks: tour has no apps")
	}
	return c, nil
}

// TourApps returns the tour tabs in display order.
func TourApps() []TourApp {
	out := make([]TourApp, len(decks.Tour))
	copy(out, decks.Tour)
	return out
}

// FindTourApp returns the tab with key.
func FindTourApp(key string) (TourApp, bool) {
	for _, app := range decks.Tour {
		if app.Key == key {
			return app, true
		}
	}
	return TourApp{}, false
}

// DefaultTourApp is the tab selected when the tour opens.
func DefaultTourApp() TourApp {
	return decks.Tour[0]
}

// TourImageURL locates the screenshot of a tour step.
func TourImageURL(root, app string, step TourStep) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(root, "/"), app, step.Image)
}

// PresentationFor returns the featured deck when featured is set and a
// single placeholder slide titled after the project otherwise.
func PresentationFor(title string, featured bool) Presentation {
	if featured {
		slides := make([]Slide, len(decks.Featured.Slides))
		copy(slides, decks.Featured.Slides)
		return Presentation{Heading: decks.Featured.Heading, Featured: true, Slides: slides}
	}

	fallback := decks.Fallback
	heading := fallback.Title
	if strings.TrimSpace(title) != "" {
		heading = title
	}
	fallback.Title = heading
	return Presentation{Heading: heading, Slides: []Slide{fallback}}
}

var (
	markdown = goldmark.New()
	policy   = bluemonday.UGCPolicy()
)

// RenderInline converts one markdown bullet to sanitized inline HTML.
func RenderInline(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return policy.Sanitize(src)
	}
	html := strings.TrimSpace(policy.Sanitize(buf.String()))
	html = strings.TrimPrefix(html, "<p>")
	html = strings.TrimSuffix(html, "</p>")
	return html
}

// Rendered is a slide with its bullets converted to HTML.
type Rendered struct {
	Slide
	BulletsHTML  []string   `json:"bullets_html,omitempty"`
	SectionsHTML [][]string `json:"sections_html,omitempty"`
}

// Render converts the markdown of s.
func Render(s Slide) Rendered {
	r := Rendered{Slide: s}
	for _, b := range s.Bullets {
		r.BulletsHTML = append(r.BulletsHTML, RenderInline(b))
	}
	for _, sec := range s.Sections {
		var html []string
		for _, b := range sec.Bullets {
			html = append(html, RenderInline(b))
		}
		r.SectionsHTML = append(r.SectionsHTML, html)
	}
	return r
}
