package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ticketdesk/internal/model"
	"ticketdesk/internal/ticketlist"

	"github.com/rs/zerolog"
)

const ticketsPath = "/api/tickets"

// ErrNotFound matches a 404 from the ticket API (errors.Is).
var ErrNotFound = errors.New("ticket not found")

// StatusError is a non-2xx response from the ticket API.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, msg)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client (Timeout is then ignored).
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to the ticket REST API.
type Client struct {
	base  *url.URL
	token string
	hc    *http.Client
	log   zerolog.Logger
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("api: base url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported base url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{base: u, token: strings.TrimSpace(opts.Token), hc: hc, log: opts.Logger}, nil
}

type listEnvelope struct {
	Data []model.RawTicket `json:"data"`
}

type itemEnvelope struct {
	Data model.RawTicket `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

// List fetches one page of tickets.
func (c *Client) List(ctx context.Context, q ticketlist.ListQuery) ([]model.RawTicket, error) {
	v := url.Values{}
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortField != "" {
		v.Set("sort", q.SortField)
		order := "asc"
		if q.SortDescending {
			order = "desc"
		}
		v.Set("order", order)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}

	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, ticketsPath, v, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []model.RawTicket{}
	}
	return env.Data, nil
}

func (c *Client) Get(ctx context.Context, id string) (model.RawTicket, error) {
	var env itemEnvelope
	err := c.do(ctx, http.MethodGet, ticketPath(id), nil, nil, &env)
	return env.Data, err
}

func (c *Client) Create(ctx context.Context, in model.TicketInput) (model.RawTicket, error) {
	var env itemEnvelope
	err := c.do(ctx, http.MethodPost, ticketsPath, nil, in, &env)
	return env.Data, err
}

func (c *Client) Update(ctx context.Context, id string, in model.TicketInput) (model.RawTicket, error) {
	var env itemEnvelope
	err := c.do(ctx, http.MethodPut, ticketPath(id), nil, in, &env)
	return env.Data, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, ticketPath(id), nil, nil, nil)
}

func ticketPath(id string) string {
	return ticketsPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any, out any) error {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: path, Code: resp.StatusCode}
		var eb errorBody
		if b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil {
			if json.Unmarshal(b, &eb) == nil {
				se.Message = eb.Error
			}
		}
		return se
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
