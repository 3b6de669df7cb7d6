// Package portfolio talks to the upstream portfolio API that stores the
// profile, projects, skills, experiences and budget requests.
package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api"
	defaultTimeout = 8 * time.Second
	maxErrorBody   = 512
)

// ErrUpstream wraps every non-2xx answer from the upstream API.
var ErrUpstream = errors.New("portfolio: upstream error")

// Client reads portfolio records and submits briefings.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the normalized upstream root.
func (c *Client) BaseURL() string { return c.baseURL }

// GetProfile returns nil when the upstream has no profile yet.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var profile *Profile
	if err := c.getJSON(ctx, "profile", &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.getJSON(ctx, "projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	var skills []Skill
	if err := c.getJSON(ctx, "skills", &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func (c *Client) ListExperiences(ctx context.Context) ([]Experience, error) {
	var exps []Experience
	if err := c.getJSON(ctx, "experiences", &exps); err != nil {
		return nil, err
	}
	return exps, nil
}

// DownloadDocument fetches the rendered portfolio PDF.
func (c *Client) DownloadDocument(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "pdf", nil, "application/pdf")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// SubmitBriefing posts b to the budget endpoint and returns the stored record.
func (c *Client) SubmitBriefing(ctx context.Context, b Briefing) (Briefing, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return Briefing{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "budget", payload, "application/json")
	if err != nil {
		return Briefing{}, err
	}
	defer resp.Body.Close()

	var stored Briefing
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return Briefing{}, fmt.Errorf("portfolio: decode budget: %w", err)
	}
	return stored, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("portfolio: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, accept string) (*http.Response, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s status %d: %s", ErrUpstream, method, path, resp.StatusCode, drainError(resp.Body))
	}
	return resp, nil
}

func drainError(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(data))
}
