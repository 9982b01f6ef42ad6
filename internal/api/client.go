// Package api talks to the skills service of a rhasspy installation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/logger"
)

const (
	DefaultHost = "http://127.0.0.1:9090"

	submitTimeout = 60 * time.Second
	callTimeout   = 20 * time.Second

	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 64 << 10
)

// StatusError is returned when the service answers with anything but 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, body)
}

// SkillRecord is one installed skill as reported by the service.
type SkillRecord struct {
	Name  string         `mapstructure:"skill_name"`
	Extra map[string]any `mapstructure:",remain"`
}

// Fields returns the record as reported, skill_name included.
func (r SkillRecord) Fields() map[string]any {
	fields := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		fields[k] = v
	}
	fields["skill_name"] = r.Name
	return fields
}

// SubmitOptions are the query flags of an install request.
type SubmitOptions struct {
	Force       bool
	StartOnBoot bool
}

// Client is a skills service client.
type Client struct {
	base          *url.URL
	http          *http.Client
	submitTimeout time.Duration
	callTimeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeouts overrides the install and companion call timeouts.
func WithTimeouts(submit, call time.Duration) Option {
	return func(c *Client) {
		c.submitTimeout = submit
		c.callTimeout = call
	}
}

// NewClient creates a client for the service at host, e.g.
// "http://127.0.0.1:9090".
func NewClient(host string, opts ...Option) (*Client, error) {
	if host == "" {
		host = DefaultHost
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid host %q", host)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("invalid host %q: scheme must be http or https", host)
	}

	c := &Client{
		base:          base,
		http:          &http.Client{},
		submitTimeout: submitTimeout,
		callTimeout:   callTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Host returns the service base URL.
func (c *Client) Host() string { return c.base.String() }

// Submit uploads a skill archive as the multipart field "file".
func (c *Client) Submit(ctx context.Context, archive []byte, fileName string, opts SubmitOptions) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", "application/x-tar")
	part, err := mw.CreatePart(header)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if _, err := part.Write(archive); err != nil {
		return errors.Wrap(err, "building request")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "building request")
	}

	query := url.Values{}
	query.Set("force", strconv.FormatBool(opts.Force))
	query.Set("start_on_boot", strconv.FormatBool(opts.StartOnBoot))

	logger.G(ctx).WithField("file", fileName).WithField("size", len(archive)).Debug("submitting skill archive")
	_, err = c.do(ctx, c.submitTimeout, http.MethodPost, c.endpoint(query, "api", "skills"), &body, mw.FormDataContentType())
	return err
}

// List returns the installed skills.
func (c *Client) List(ctx context.Context) ([]SkillRecord, error) {
	data, err := c.do(ctx, c.callTimeout, http.MethodGet, c.endpoint(nil, "api", "skills"), nil, "")
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding skill list")
	}
	records := make([]SkillRecord, 0, len(raw))
	if err := mapstructure.Decode(raw, &records); err != nil {
		return nil, errors.Wrap(err, "decoding skill list")
	}
	return records, nil
}

// Uninstall removes a skill and returns the service's answer.
func (c *Client) Uninstall(ctx context.Context, name string, force bool) (string, error) {
	query := url.Values{"force": {strconv.FormatBool(force)}}
	data, err := c.do(ctx, c.callTimeout, http.MethodDelete, c.endpoint(query, "api", "skills", name), nil, "")
	return string(data), err
}

// Start starts an installed skill.
func (c *Client) Start(ctx context.Context, name string) (string, error) {
	data, err := c.do(ctx, c.callTimeout, http.MethodPost, c.endpoint(nil, "api", "skills", name, "start"), nil, "")
	return string(data), err
}

// Stop stops a running skill.
func (c *Client) Stop(ctx context.Context, name string, force bool) (string, error) {
	query := url.Values{"force": {strconv.FormatBool(force)}}
	data, err := c.do(ctx, c.callTimeout, http.MethodPost, c.endpoint(query, "api", "skills", name, "stop"), nil, "")
	return string(data), err
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.base.JoinPath(escaped...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, timeout time.Duration, method, endpoint string, body io.Reader, contentType string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log := logger.G(ctx).WithField("method", method).WithField("url", endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Debug("request failed")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response of %s %s", method, endpoint)
	}
	log.Debug("request done")
	return data, nil
}
