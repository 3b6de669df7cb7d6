// Package pdf renders the portfolio document locally when the upstream API
// cannot serve it.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"portfolio-be/pkg/portfolio"
)

const (
	margin      = 20.0
	lineHeight  = 5.5
	defaultName = "Seu Nome"
	FileName    = "portfolio.pdf"
)

type writer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render writes an A4 document with the profile, contacts, skills,
// experiences and projects found in snap.
func Render(w io.Writer, snap portfolio.Snapshot) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	doc := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	profile := portfolio.Profile{Name: defaultName}
	if snap.Profile != nil {
		profile = *snap.Profile
		if strings.TrimSpace(profile.Name) == "" {
			profile.Name = defaultName
		}
	}
	pdf.SetTitle(doc.tr(profile.Name+" — Portfólio"), false)
	pdf.SetAuthor(doc.tr(profile.Name), false)

	doc.text(profile.Name, "B", 20)
	if profile.Title != "" {
		doc.text(profile.Title, "B", 14)
	}
	if profile.Bio != "" {
		doc.text(profile.Bio, "", 11)
	}
	doc.gap(4)

	contacts := contactLines(profile)
	if len(contacts) > 0 {
		doc.heading("Contato")
		for _, c := range contacts {
			doc.text(c, "", 11)
		}
		doc.gap(4)
	}

	if len(snap.Skills) > 0 {
		doc.heading("Skills")
		for _, s := range snap.Skills {
			doc.text(fmt.Sprintf("%s — %s (%s)", s.Name, s.Level, s.Category), "", 11)
		}
		doc.gap(4)
	}

	if len(snap.Experiences) > 0 {
		doc.heading("Experiência")
		for _, e := range snap.Experiences {
			doc.text(strings.TrimSpace(fmt.Sprintf("%s — %s %s", e.Role, e.Company, e.Period())), "B", 11)
			if e.Description != "" {
				doc.text(e.Description, "", 11)
			}
			doc.gap(2)
		}
		doc.gap(4)
	}

	if len(snap.Projects) > 0 {
		doc.heading("Projetos")
		for _, p := range snap.Projects {
			line := p.Title
			if p.Tags != "" {
				line = line + " — " + p.Tags
			}
			doc.text(line, "B", 11)
			if p.Description != "" {
				doc.text(p.Description, "", 11)
			}
			if p.URL != "" {
				doc.text("url: "+p.URL, "", 10)
			}
			if p.RepoURL != "" {
				doc.text("repo_url: "+p.RepoURL, "", 10)
			}
			doc.gap(2)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render portfolio pdf: %w", err)
	}
	return pdf.Output(w)
}

// Bytes renders snap into memory.
func Bytes(snap portfolio.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func contactLines(p portfolio.Profile) []string {
	fields := []struct{ label, value string }{
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Location", p.Location},
		{"Website", p.Website},
		{"Linkedin", p.LinkedIn},
		{"Github", p.GitHub},
	}
	var out []string
	for _, f := range fields {
		if f.value != "" {
			out = append(out, f.label+": "+f.value)
		}
	}
	return out
}

func (d *writer) heading(s string) {
	d.text(s, "B", 13)
	d.gap(1)
}

func (d *writer) text(s, style string, size float64) {
	d.pdf.SetFont("Helvetica", style, size)
	d.pdf.MultiCell(0, lineHeight*size/11, d.tr(s), "", "L", false)
}

func (d *writer) gap(h float64) {
	d.pdf.Ln(h)
}
