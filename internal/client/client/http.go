package client

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
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

const (
	usersPath = "users"

	// RequestIDHeader carries a per-request id for correlating client and
	// server logs.
	RequestIDHeader = "X-Request-ID"

	defaultDeleteConcurrency = 8
	maxErrorBody             = 512
)

// HTTPStore is the REST implementation of Store.
type HTTPStore struct {
	baseURL     *url.URL
	httpClient  *http.Client
	timeout     time.Duration
	log         logging.Logger
	tracer      trace.Tracer
	propagator  propagation.TextMapPropagator
	concurrency int
}

type Option func(*HTTPStore)

func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPStore) { s.httpClient = c }
}

// WithTimeout bounds every request, including reading the response. It is
// applied to a copy of the HTTP client, so a shared client is not modified.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPStore) { s.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *HTTPStore) { s.log = l }
}

// WithDeleteConcurrency caps the number of DELETE requests in flight during
// DeleteMany. Values below 1 are ignored.
func WithDeleteConcurrency(n int) Option {
	return func(s *HTTPStore) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *HTTPStore) { s.tracer = tp.Tracer("github.com/dmitrijs2005/userdesk/client") }
}

// NewHTTPStore returns a store for the collection at {baseURL}/users.
func NewHTTPStore(baseURL string, opts ...Option) (*HTTPStore, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	s := &HTTPStore{
		baseURL:     u,
		httpClient:  &http.Client{},
		log:         logging.Discard(),
		tracer:      otel.Tracer("github.com/dmitrijs2005/userdesk/client"),
		propagator:  otel.GetTextMapPropagator(),
		concurrency: defaultDeleteConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timeout > 0 {
		hc := *s.httpClient
		hc.Timeout = s.timeout
		s.httpClient = &hc
	}
	return s, nil
}

// ListQuery builds the query for a list request. Empty filter values are
// left out; sortBy and order are always present.
func ListQuery(filter models.Filter, sort models.Sort) url.Values {
	q := url.Values{}
	for _, field := range models.FilterFields {
		if v := filter.Get(field); v != "" {
			q.Set(string(field), v)
		}
	}
	q.Set("sortBy", string(sort.Field))
	q.Set("order", string(sort.Order))
	return q
}

func (s *HTTPStore) List(ctx context.Context, filter models.Filter, sort models.Sort) ([]models.User, error) {
	var users []models.User
	if err := s.do(ctx, "users.list", http.MethodGet, usersPath, ListQuery(filter, sort), nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *HTTPStore) Create(ctx context.Context, u models.NewUser) (models.User, error) {
	var created models.User
	if err := s.do(ctx, "users.create", http.MethodPost, usersPath, nil, u, &created); err != nil {
		return models.User{}, err
	}
	return created, nil
}

func (s *HTTPStore) Delete(ctx context.Context, id int64) error {
	path := usersPath + "/" + strconv.FormatInt(id, 10)
	return s.do(ctx, "users.delete", http.MethodDelete, path, nil, nil, nil)
}

// DeleteMany issues one Delete per distinct id with bounded concurrency.
// A failing deletion does not cancel the others, so the returned
// *DeleteError names exactly the ids that are still present.
func (s *HTTPStore) DeleteMany(ctx context.Context, ids []int64) error {
	ids = distinct(ids)
	if len(ids) == 0 {
		return nil
	}

	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed = make(map[int64]error)
	)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			if err := s.Delete(ctx, id); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		s.log.Warn(ctx, "bulk delete partially failed", "requested", len(ids), "failed", len(failed))
		return newDeleteError(failed, len(ids))
	}
	return nil
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *HTTPStore) endpoint(path string, query url.Values) string {
	u := *s.baseURL
	u.Path = u.Path + "/" + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one request. in is JSON-encoded as the body when non-nil;
// a 2xx response body is decoded into out when out is non-nil.
func (s *HTTPStore) do(ctx context.Context, op, method, path string, query url.Values, in, out any) (err error) {
	target := s.endpoint(path, query)
	requestID := uuid.NewString()

	ctx, span := s.tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
			attribute.String("request.id", requestID),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Debug(ctx, "request failed", "op", op, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, target, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	s.log.Debug(ctx, "request done", "op", op, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			URL:    target,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: decode %s response: %w", ErrNetwork, op, err)
	}
	return nil
}
