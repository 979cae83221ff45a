// Package remote bridges attendance events to the external grading service.
// The service is a black box behind a small REST client; every failure at
// this boundary is converted to a typed report status and never escapes to
// the session loop.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config locates and authenticates the grading service. An empty BaseURL or
// Token means remote reporting is not configured.
type Config struct {
	BaseURL string
	Token   string
}

// Configured reports whether there is enough configuration to even attempt
// remote initialization.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.Token) != ""
}

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Assignment struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RosterEntry is one enrolled student. Name is the display name ("first
// last"); LoginID is the system username. Identity matching tries both, so
// either identity policy works against the same roster.
type RosterEntry struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
}

// Client is a minimal grading-service API client. All calls are bounded by
// the underlying HTTP client's timeout; a slow service stalls one call, not
// the process.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote base URL is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("remote base URL: %w", err)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("remote access token is empty")
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(cfg.Token),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Authenticate verifies the access token by fetching the service's own-user
// endpoint.
func (c *Client) Authenticate(ctx context.Context) error {
	var self struct {
		ID int64 `json:"id"`
	}
	if err := c.get(ctx, "/api/v1/users/self", nil, &self); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	return nil
}

// ListCourses returns the courses visible to the token's user.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.get(ctx, "/api/v1/courses", url.Values{"per_page": {"100"}}, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindCourseByName resolves a configured course name to a course. Name
// comparison is case-insensitive and exact.
func (c *Client) FindCourseByName(ctx context.Context, name string) (Course, error) {
	courses, err := c.ListCourses(ctx)
	if err != nil {
		return Course{}, err
	}
	for _, course := range courses {
		if strings.EqualFold(course.Name, name) {
			return course, nil
		}
	}
	return Course{}, fmt.Errorf("course %q not found", name)
}

// ListAssignments returns a course's assignments.
func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	var assignments []Assignment
	path := fmt.Sprintf("/api/v1/courses/%d/assignments", courseID)
	if err := c.get(ctx, path, url.Values{"per_page": {"100"}}, &assignments); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindAssignmentByName resolves a configured assignment name within a course.
func (c *Client) FindAssignmentByName(ctx context.Context, courseID int64, name string) (Assignment, error) {
	assignments, err := c.ListAssignments(ctx, courseID)
	if err != nil {
		return Assignment{}, err
	}
	for _, a := range assignments {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return Assignment{}, fmt.Errorf("assignment %q not found", name)
}

// ListRoster returns the students enrolled in a course.
func (c *Client) ListRoster(ctx context.Context, courseID int64) ([]RosterEntry, error) {
	var roster []RosterEntry
	path := fmt.Sprintf("/api/v1/courses/%d/users", courseID)
	params := url.Values{"enrollment_type[]": {"student"}, "per_page": {"100"}}
	if err := c.get(ctx, path, params, &roster); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return roster, nil
}

// SubmitGrade posts a grade for one student's submission on an assignment.
func (c *Client) SubmitGrade(ctx context.Context, courseID, assignmentID, userID int64, grade string) error {
	path := fmt.Sprintf("/api/v1/courses/%d/assignments/%d/submissions/%d",
		courseID, assignmentID, userID)
	params := url.Values{"submission[posted_grade]": {grade}}
	if err := c.do(ctx, http.MethodPut, path, params, nil); err != nil {
		return fmt.Errorf("submit grade: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
