package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"portfolio-be/pkg/media"
	"portfolio-be/pkg/pdf"
	"portfolio-be/pkg/portfolio"
	"portfolio-be/pkg/slug"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var errMissingTitle = errors.New("a project title is required")

// newCLIApp builds the gallerycheck commands writing to out.
func newCLIApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:  "gallerycheck",
		Usage: "Inspect project galleries and the portfolio document",
		Commands: []*cli.Command{
			slugCmd(out),
			stepsCmd(out),
			probeCmd(out),
			pdfCmd(out),
		},
		Writer: out,
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func titleArg(c *cli.Context) (string, error) {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if title == "" {
		return "", errMissingTitle
	}
	return title, nil
}

func slugCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "slug",
		Usage:     "Print the media folder key for a title",
		ArgsUsage: "<title>",
		Action: func(c *cli.Context) error {
			title, err := titleArg(c)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, slug.Make(title))
			return nil
		},
	}
}

func stepsCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "steps",
		Usage:     "Print the captions used for a title's gallery",
		ArgsUsage: "<title>",
		Action: func(c *cli.Context) error {
			title, err := titleArg(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "category: %s\n", media.DetectCategory(title))
			for i, s := range media.StepsForTitle(title) {
				fmt.Fprintf(out, "%2d. %s\n", i+1, s.Caption())
			}
			return nil
		},
	}
}

func probeCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Discover the gallery images a title would show",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "media-root", Aliases: []string{"m"}, Value: "http://localhost:5173/media", EnvVars: []string{"MEDIA_ROOT"}, Usage: "Base URL of the media folders"},
			&cli.DurationFlag{Name: "timeout", Aliases: []string{"t"}, Value: media.DefaultProbeTimeout, Usage: "Per-probe timeout"},
			&cli.IntFlag{Name: "concurrency", Aliases: []string{"c"}, Value: media.DefaultConcurrency, Usage: "Slots probed at once"},
		},
		Action: func(c *cli.Context) error {
			title, err := titleArg(c)
			if err != nil {
				return err
			}

			prober := media.NewHTTPProber(&http.Client{}, c.Duration("timeout"))
			d := media.NewDiscoverer(c.String("media-root"), prober, media.WithConcurrency(c.Int("concurrency")))
			key := slug.OrDefault(title, "projeto")

			start := time.Now()
			items, err := d.Discover(c.Context, key, media.StepsForTitle(title))
			if err != nil {
				return err
			}
			printGallery(out, key, items, d.Hints(key), time.Since(start))
			return nil
		},
	}
}

func printGallery(out io.Writer, key string, items []media.GalleryItem, hints []string, took time.Duration) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Fprintf(out, "gallery %q: %d image(s) in %s\n", key, len(items), took.Round(time.Millisecond))
	if len(items) == 0 {
		yellow.Fprintln(out, "no images found, expected locations:")
		for _, h := range hints {
			yellow.Fprintf(out, "  %s\n", h)
		}
		return
	}
	for _, it := range items {
		green.Fprintf(out, "  [%02d] %s\n", it.Slot, it.Original)
		fmt.Fprintf(out, "       %s\n", it.Description)
	}
}

func pdfCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "pdf",
		Usage: "Render the portfolio document locally from the upstream records",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: portfolio.DefaultBaseURL, EnvVars: []string{"UPSTREAM_API_URL"}, Usage: "Upstream portfolio API"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: pdf.FileName, Usage: "Output file"},
		},
		Action: func(c *cli.Context) error {
			client := portfolio.NewClient(c.String("api"), 0)
			snap, err := fetchSnapshot(c.Context, client)
			if err != nil {
				return err
			}

			f, err := os.Create(c.String("out"))
			if err != nil {
				return err
			}
			defer f.Close()

			if err := pdf.Render(f, snap); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(out, "wrote %s\n", c.String("out"))
			return nil
		},
	}
}

func fetchSnapshot(ctx context.Context, client *portfolio.Client) (portfolio.Snapshot, error) {
	var snap portfolio.Snapshot
	var err error
	if snap.Profile, err = client.GetProfile(ctx); err != nil {
		return snap, fmt.Errorf("profile: %w", err)
	}
	if snap.Projects, err = client.ListProjects(ctx); err != nil {
		return snap, fmt.Errorf("projects: %w", err)
	}
	if snap.Skills, err = client.ListSkills(ctx); err != nil {
		return snap, fmt.Errorf("skills: %w", err)
	}
	if snap.Experiences, err = client.ListExperiences(ctx); err != nil {
		return snap, fmt.Errorf("experiences: %w", err)
	}
	return snap, nil
}
