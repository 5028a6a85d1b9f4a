package wanikani

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the v2 API root.
	DefaultBaseURL = "https://api.wanikani.com/v2"
	// DefaultRevision pins the API revision the models are written against.
	DefaultRevision = "20170710"

	// maxErrorBody bounds how much of a failed response is kept in APIError.
	maxErrorBody = 4 << 10
)

// Config holds the values a Client needs. The caller resolves them (from
// flags, files or the environment); the client never reads process state.
type Config struct {
	APIKey   string
	BaseURL  string
	Revision string
}

// Client talks to the WaniKani v2 REST API. Requests are issued one at a
// time by the caller; the client holds no per-request state.
type Client struct {
	apiKey     string
	baseURL    string
	revision   string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		revision:   cfg.Revision,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.revision == "" {
		c.revision = DefaultRevision
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Subjects lists the catalog subjects matching q.
func (c *Client) Subjects(ctx context.Context, q SubjectQuery) iter.Seq2[Subject, error] {
	return collection[Subject](ctx, c, "/subjects", q.Values())
}

// Assignments lists the learner's assignments matching q.
func (c *Client) Assignments(ctx context.Context, q AssignmentQuery) iter.Seq2[Assignment, error] {
	return collection[Assignment](ctx, c, "/assignments", q.Values())
}

// StudyMaterials lists the learner's study materials matching q.
func (c *Client) StudyMaterials(ctx context.Context, q StudyMaterialQuery) iter.Seq2[StudyMaterial, error] {
	return collection[StudyMaterial](ctx, c, "/study_materials", q.Values())
}

// StartAssignment moves an assignment from the lesson queue into reviews.
// Starting an already started assignment is rejected by the service.
func (c *Client) StartAssignment(ctx context.Context, assignmentID int) (Assignment, error) {
	var out Assignment
	body := map[string]any{"assignment": struct{}{}}
	path := fmt.Sprintf("%s/assignments/%d/start", c.baseURL, assignmentID)
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return Assignment{}, fmt.Errorf("start assignment %d: %w", assignmentID, err)
	}
	return out, nil
}

// CreateStudyMaterial creates study material for u.SubjectID.
func (c *Client) CreateStudyMaterial(ctx context.Context, u StudyMaterialUpdate) (StudyMaterial, error) {
	var out StudyMaterial
	body := map[string]any{"study_material": u}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/study_materials", body, &out); err != nil {
		return StudyMaterial{}, fmt.Errorf("create study material for subject %d: %w", u.SubjectID, err)
	}
	return out, nil
}

// UpdateStudyMaterial replaces the notes and synonyms of an existing study material.
func (c *Client) UpdateStudyMaterial(ctx context.Context, id int, u StudyMaterialUpdate) (StudyMaterial, error) {
	var out StudyMaterial
	u.SubjectID = 0
	body := map[string]any{"study_material": u}
	path := fmt.Sprintf("%s/study_materials/%d", c.baseURL, id)
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return StudyMaterial{}, fmt.Errorf("update study material %d: %w", id, err)
	}
	return out, nil
}

// collection walks a paginated resource lazily. Each range over the
// returned sequence starts again from the first page; breaking out of the
// loop stops further page requests.
func collection[T any](ctx context.Context, c *Client, path string, params url.Values) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		next := c.baseURL + path
		if len(params) > 0 {
			next += "?" + params.Encode()
		}
		pages := 0
		for next != "" {
			var page collectionPage[T]
			if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
				var zero T
				yield(zero, fmt.Errorf("fetch %s page %d: %w", path, pages+1, err))
				return
			}
			pages++
			c.log.Debug("fetched page",
				zap.String("resource", path),
				zap.Int("page", pages),
				zap.Int("items", len(page.Data)),
				zap.Int("total", page.TotalCount))

			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}
			next = ""
			if page.Pages.NextURL != nil {
				next = *page.Pages.NextURL
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, target string, payload any, v any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Wanikani-Revision", c.revision)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
