package tmdb

import (
	"context"
	"fmt"
	"io"
	"movieapi/catalog"
	"movieapi/errs"
	"movieapi/pkg/logger"
	"movieapi/pkg/metrics"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 40
	DefaultRateBurst = 10

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerSecond and Burst throttle outgoing calls.
	RequestsPerSecond float64
	Burst             int
	Logger            *zap.SugaredLogger
	HTTPClient        *http.Client
}

// Client implements catalog.Client against the TMDB v3 REST api.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRateLimit
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultRateBurst
	}
	if opts.Logger == nil {
		opts.Logger = logger.NOOPLogger
	}
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	hc.Timeout = opts.Timeout

	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: hc,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		log:        opts.Logger,
	}
}

func (c *Client) Popular(ctx context.Context, page int) (catalog.MovieList, []byte, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return getList(ctx, c, catalog.OpPopular, "/movie/popular", params)
}

func (c *Client) Search(ctx context.Context, query string, page int) (catalog.MovieList, []byte, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	return getList(ctx, c, catalog.OpSearch, "/search/movie", params)
}

func (c *Client) Details(ctx context.Context, externalID string) (catalog.Movie, []byte, error) {
	raw, err := c.get(ctx, catalog.OpDetails, "/movie/"+url.PathEscape(externalID), url.Values{})
	if err != nil {
		return catalog.Movie{}, nil, err
	}

	var m catalog.Movie
	if err := json.Unmarshal(raw, &m); err != nil {
		return catalog.Movie{}, nil, errs.Wrap(errs.EUNAVAILABLE, err, "tmdb: decode movie details")
	}
	if err := m.Validate(); err != nil {
		return catalog.Movie{}, nil, err
	}
	return m, raw, nil
}

func getList(ctx context.Context, c *Client, op, path string, params url.Values) (catalog.MovieList, []byte, error) {
	raw, err := c.get(ctx, op, path, params)
	if err != nil {
		return catalog.MovieList{}, nil, err
	}

	var l catalog.MovieList
	if err := json.Unmarshal(raw, &l); err != nil {
		return catalog.MovieList{}, nil, errs.Wrap(errs.EUNAVAILABLE, err, "tmdb: decode movie list")
	}
	if err := l.Validate(); err != nil {
		return catalog.MovieList{}, nil, err
	}
	return l, raw, nil
}

// get performs a throttled GET and returns the body of a 2xx response.
// Every failure, including a non-2xx status, is reported as unavailable.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.CatalogUpstreamRequests.WithLabelValues(op, outcome).Inc()
		metrics.CatalogUpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(errs.EUNAVAILABLE, err, "tmdb: rate limiter")
	}

	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(errs.EUNAVAILABLE, err, "tmdb: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.EUNAVAILABLE, err, "tmdb: request %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errs.Wrap(errs.EUNAVAILABLE, err, "tmdb: read %s", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "status_" + strconv.Itoa(resp.StatusCode)
		c.log.Warnw("tmdb returned non-success status", "path", path, "status", resp.StatusCode)
		return nil, errs.Errorf(errs.EUNAVAILABLE, "tmdb: %s returned status %d", path, resp.StatusCode)
	}

	outcome = "ok"
	return body, nil
}

var _ catalog.Client = (*Client)(nil)

// String hides the api key from logs.
func (c *Client) String() string {
	return fmt.Sprintf("tmdb.Client{baseURL: %s}", c.baseURL)
}
