package main

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newCLIApp(&out).Run(append([]string{"gallerycheck"}, args...))
	return out.String(), err
}

func TestSlugCommand(t *testing.T) {
	out, err := run(t, "slug", "Myrthes", "Costuras")
	require.NoError(t, err)
	assert.Equal(t, "myrthes-costuras\n", out)
}

func TestSlugCommand_MissingTitle(t *testing.T) {
	_, err := run(t, "slug")
	assert.ErrorIs(t, err, errMissingTitle)
}

func TestStepsCommand(t *testing.T) {
	out, err := run(t, "steps", "Sistema NR13")
	require.NoError(t, err)
	assert.Contains(t, out, "category: ")
	assert.Contains(t, out, " 1. ")
}

func TestProbeCommand(t *testing.T) {
	var pb bytes.Buffer
	require.NoError(t, png.Encode(&pb, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/media/loja/1.png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pb.Bytes())
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	out, err := run(t, "probe", "--media-root", srv.URL+"/media", "loja")
	require.NoError(t, err)
	assert.Contains(t, out, `gallery "loja": 1 image(s)`)
	assert.Contains(t, out, "[01] "+srv.URL+"/media/loja/1.png")
}

func TestProbeCommand_Empty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	out, err := run(t, "probe", "--media-root", srv.URL, "--timeout", "1s", "nada")
	require.NoError(t, err)
	assert.Contains(t, out, "no images found")
	assert.True(t, strings.Count(out, "\n") > 2)
}

func TestPdfCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Ana","title":"Dev"}`))
	})
	for _, p := range []string{"/api/projects", "/api/skills", "/api/experiences"} {
		mux.HandleFunc("GET "+p, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "out.pdf")
	out, err := run(t, "pdf", "--api", srv.URL+"/api", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
