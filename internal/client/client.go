// Package client is a thin HTTP client for the loom API, used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"loom/internal/api"
)

// ErrAPIUnavailable reports that the daemon could not be reached.
var ErrAPIUnavailable = errors.New("loom API unavailable")

// Client issues requests against a running loomd instance.
type Client struct {
	base *url.URL
	http *http.Client
}

// StatusError carries the HTTP status and server-side message of a failed
// request.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

// New builds a client for the given bind address. A bare host:port is
// treated as http.
func New(bind string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("api address is required")
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, fmt.Errorf("parse api address: %w", err)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// IsAPIUnavailable reports whether err looks like a failure to reach the
// daemon rather than an API-level error.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}

// Health fetches the liveness payload.
func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	err := c.getJSON(ctx, "/health", &out)
	return out, err
}

// ServiceInfo fetches the root service description.
func (c *Client) ServiceInfo(ctx context.Context) (api.ServiceInfo, error) {
	var out api.ServiceInfo
	err := c.getJSON(ctx, "/", &out)
	return out, err
}

// ListProjects fetches all projects.
func (c *Client) ListProjects(ctx context.Context) ([]api.Project, error) {
	var out []api.Project
	err := c.getJSON(ctx, "/projects", &out)
	return out, err
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, name, description string) (api.Project, error) {
	var out api.Project
	err := c.postJSON(ctx, "/projects", api.ProjectRequest{Name: name, Description: description}, &out)
	return out, err
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, id string) (api.Project, error) {
	var out api.Project
	err := c.getJSON(ctx, "/projects/"+url.PathEscape(id), &out)
	return out, err
}

// DeleteProject removes a project and everything beneath it.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, "", nil)
}

// ListAudio fetches the uploads recorded for a project.
func (c *Client) ListAudio(ctx context.Context, id string) ([]api.AudioFile, error) {
	var out []api.AudioFile
	err := c.getJSON(ctx, "/projects/"+url.PathEscape(id)+"/audio", &out)
	return out, err
}

// UploadAudio sends a local file as a multipart upload.
func (c *Client) UploadAudio(ctx context.Context, id, path string) (api.UploadResponse, error) {
	var out api.UploadResponse

	file, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return out, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return out, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return out, fmt.Errorf("finish upload form: %w", err)
	}

	err = c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(id)+"/audio", &buf, writer.FormDataContentType(), &out)
	return out, err
}

// Dialogue fetches the stored transcript as raw JSON.
func (c *Client) Dialogue(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.getJSON(ctx, "/projects/"+url.PathEscape(id)+"/dialogue", &out)
	return out, err
}

// Blueprint fetches the latest blueprint as raw JSON.
func (c *Client) Blueprint(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.getJSON(ctx, "/projects/"+url.PathEscape(id)+"/blueprint", &out)
	return out, err
}

// Article fetches the latest article.
func (c *Client) Article(ctx context.Context, id string) (api.Article, error) {
	var out api.Article
	err := c.getJSON(ctx, "/projects/"+url.PathEscape(id)+"/article", &out)
	return out, err
}

// ArticleMarkdown fetches the latest article body as raw markdown.
func (c *Client) ArticleMarkdown(ctx context.Context, id string) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/projects/"+url.PathEscape(id)+"/article/markdown", nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}
	return string(body), nil
}

// Trigger fires a workflow trigger endpoint (transcribe, plan, write).
func (c *Client) Trigger(ctx context.Context, id, trigger string) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(id)+"/"+url.PathEscape(trigger), nil, "", &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(encoded), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if c == nil {
		return nil, ErrAPIUnavailable
	}
	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	message := ""
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		message = payload.Error
	}
	return &StatusError{Status: resp.StatusCode, Message: message}
}
