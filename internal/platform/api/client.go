// Package api is the HTTP transport to the MediWay backend. Every request
// carries a generated X-Request-ID, is logged at debug level and reported to
// an optional Recorder. Non-2xx responses become *StatusError and network
// failures become *TransportError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader is attached to every outgoing request.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 64 * 1024

// Recorder observes completed requests. Status is 0 for transport failures.
type Recorder interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRecorder registers a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// Client talks to the backend REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     zerolog.Logger
	recorder   Recorder
}

// New creates a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https, got %q", u.Scheme)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Request describes one backend call. Route is the templated path used for
// logs and metrics; Path is the concrete path and defaults to Route.
type Request struct {
	Method      string
	Route       string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
}

func (r Request) path() string {
	if r.Path != "" {
		return r.Path
	}
	return r.Route
}

// URL returns the absolute URL for p and query, for links handed to a browser
// or another downloader.
func (c *Client) URL(p string, query url.Values) string {
	u := *c.baseURL
	joined := path.Join(c.baseURL.EscapedPath(), p)
	if unescaped, err := url.PathUnescape(joined); err == nil {
		u.Path = unescaped
		u.RawPath = joined
	} else {
		u.Path = joined
		u.RawPath = ""
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	} else {
		u.RawQuery = ""
	}
	return u.String()
}

// Do executes req. On success the caller owns resp.Body; on a non-2xx status
// the body is consumed and returned inside a *StatusError.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	p := req.path()
	route := req.Route
	if route == "" {
		route = p
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.URL(p, req.Query), req.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: p, Err: err}
	}
	rid := uuid.New().String()
	httpReq.Header.Set(RequestIDHeader, rid)
	httpReq.Header.Set("Accept", "application/json, */*")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)

	if err != nil {
		c.observe(req.Method, route, 0, elapsed)
		c.logger.Debug().Err(err).
			Str("request_id", rid).
			Str("method", req.Method).
			Str("path", p).
			Dur("latency", elapsed).
			Msg("backend request failed")
		return nil, &TransportError{Method: req.Method, Path: p, Err: err}
	}

	c.observe(req.Method, route, resp.StatusCode, elapsed)
	c.logger.Debug().
		Str("request_id", rid).
		Str("method", req.Method).
		Str("path", p).
		Int("status", resp.StatusCode).
		Dur("latency", elapsed).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     req.Method,
			Path:       p,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

func (c *Client) observe(method, route string, status int, elapsed time.Duration) {
	if c.recorder != nil {
		c.recorder.ObserveRequest(method, route, status, elapsed)
	}
}

// JSON executes req and decodes a JSON response into out. A nil out discards
// the body. An empty body leaves out untouched.
func (c *Client) JSON(ctx context.Context, req Request, out interface{}) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: req.Method, Path: req.path(), Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.path(), err)
	}
	return nil
}

// Get is a convenience wrapper for a JSON GET.
func (c *Client) Get(ctx context.Context, route, p string, query url.Values, out interface{}) error {
	return c.JSON(ctx, Request{Method: http.MethodGet, Route: route, Path: p, Query: query}, out)
}

// PostJSON encodes in as the request body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, route, p string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", route, err)
	}
	return c.JSON(ctx, Request{
		Method:      http.MethodPost,
		Route:       route,
		Path:        p,
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
	}, out)
}

// FormFile is an optional file part of a multipart request.
type FormFile struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// FormField is one text part; order is preserved on the wire.
type FormField struct {
	Name  string
	Value string
}

// Multipart sends fields and an optional file as multipart/form-data.
func (c *Client) Multipart(ctx context.Context, method, route, p string, fields []FormField, file *FormFile, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	if file != nil {
		part, err := w.CreatePart(filePartHeader(file))
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		if file.Content != nil {
			if _, err := io.Copy(part, file.Content); err != nil {
				return fmt.Errorf("copy file part: %w", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	return c.JSON(ctx, Request{
		Method:      method,
		Route:       route,
		Path:        p,
		Body:        &buf,
		ContentType: w.FormDataContentType(),
	}, out)
}

// Download is a streamed binary response.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	FileName    string
}

// Download executes a GET and hands back the body unread. FileName is taken
// from Content-Disposition when the backend sends one.
func (c *Client) Download(ctx context.Context, route, p string, query url.Values) (*Download, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Route: route, Path: p, Query: query})
	if err != nil {
		return nil, err
	}
	d := &Download{Body: resp.Body, ContentType: resp.Header.Get("Content-Type")}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			d.FileName = path.Base(params["filename"])
		}
	}
	if d.FileName == "." || d.FileName == "/" {
		d.FileName = ""
	}
	return d, nil
}

func filePartHeader(f *FormFile) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return h
}

// PathEscape escapes a single path segment such as a health ID.
func PathEscape(s string) string {
	return url.PathEscape(s)
}
