// Package media discovers the gallery images published for a project.
//
// There is no manifest: for a project key the engine probes a bounded range
// of numbered slots under the media root, each in a fixed order of file
// extensions, and keeps the first extension that loads as an image.
package media

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// MaxSlots is the highest slot index ever probed.
const MaxSlots = 20

// DefaultConcurrency is the number of slots probed at once.
const DefaultConcurrency = 4

// extensions in the order each slot tries them.
var extensions = [...]string{"jpg", "png", "jpeg", "webp"}

// GalleryItem is one discovered media slot.
type GalleryItem struct {
	Slot        int    `json:"slot"`
	Original    string `json:"original"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description,omitempty"`
}

// Discoverer enumerates the gallery of a project. It keeps no state between
// calls, so one value may serve concurrent discoveries.
type Discoverer struct {
	root        string
	fetchRoot   string
	prober      Prober
	concurrency int
	tracer      trace.Tracer
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithConcurrency sets how many slots are probed in parallel; 1 probes them
// strictly one after another.
func WithConcurrency(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithFetchRoot makes the server check slots under root, an absolute URL,
// while returned items keep the media root. Use it when the media root is
// only resolvable by the browser, such as "/media".
func WithFetchRoot(root string) Option {
	return func(d *Discoverer) {
		d.fetchRoot = strings.TrimRight(strings.TrimSpace(root), "/")
	}
}

// NewDiscoverer builds a Discoverer for assets served under mediaRoot.
func NewDiscoverer(mediaRoot string, prober Prober, opts ...Option) *Discoverer {
	d := &Discoverer{
		root:        strings.TrimRight(strings.TrimSpace(mediaRoot), "/"),
		prober:      prober,
		concurrency: DefaultConcurrency,
		tracer:      otel.Tracer("portfolio-be/media"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OriginalURL is the full-size image location of slot for key.
func (d *Discoverer) OriginalURL(key string, slot int, ext string) string {
	return fmt.Sprintf("%s/%s/%d.%s", d.root, key, slot, ext)
}

func (d *Discoverer) fetchURL(key string, slot int, ext string) string {
	if d.fetchRoot == "" {
		return d.OriginalURL(key, slot, ext)
	}
	return fmt.Sprintf("%s/%s/%d.%s", d.fetchRoot, key, slot, ext)
}

// ThumbnailURL is the thumbnail location of slot for key.
func (d *Discoverer) ThumbnailURL(key string, slot int, ext string) string {
	return fmt.Sprintf("%s/%s/thumbs/%d.%s", d.root, key, slot, ext)
}

// Hints lists where the first image and thumbnail of key are expected, for
// the "not found" placeholder.
func (d *Discoverer) Hints(key string) []string {
	return []string{
		d.OriginalURL(key, 1, extensions[0]),
		d.ThumbnailURL(key, 1, extensions[0]),
	}
}

// Discover probes slots 1..MaxSlots of key and returns the hits in slot
// order. steps[i-1] captions slot i when present. Missing slots are skipped,
// not treated as the end of the gallery.
//
// When ctx is cancelled before the scan completes, Discover returns nil and
// ctx.Err(); partial results are never returned.
func (d *Discoverer) Discover(ctx context.Context, key string, steps []StepInfo) ([]GalleryItem, error) {
	ctx, span := d.tracer.Start(ctx, "media.Discover", trace.WithAttributes(
		attribute.String("media.key", key),
		attribute.Int("media.concurrency", d.concurrency),
	))
	defer span.End()

	hits := make([]*GalleryItem, MaxSlots)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for slot := 1; slot <= MaxSlots; slot++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if item, ok := d.probeSlot(gctx, key, slot); ok {
				hits[slot-1] = &item
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "cancelled")
		return nil, err
	}

	items := make([]GalleryItem, 0, MaxSlots)
	for _, hit := range hits {
		if hit == nil {
			continue
		}
		if hit.Slot-1 < len(steps) {
			hit.Description = steps[hit.Slot-1].Caption()
		}
		items = append(items, *hit)
	}
	span.SetAttributes(attribute.Int("media.items", len(items)))
	return items, nil
}

func (d *Discoverer) probeSlot(ctx context.Context, key string, slot int) (GalleryItem, bool) {
	for _, ext := range extensions {
		if ctx.Err() != nil {
			return GalleryItem{}, false
		}
		if d.prober.Probe(ctx, d.fetchURL(key, slot, ext)) {
			return GalleryItem{
				Slot:      slot,
				Original:  d.OriginalURL(key, slot, ext),
				Thumbnail: d.ThumbnailURL(key, slot, ext),
			}, true
		}
	}
	return GalleryItem{}, false
}
