package redisq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/metrics"
)

// Config configures the queue client
type Config struct {
	BaseURL        string
	QueueID        string
	TTW            int
	MinInterval    time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	UserAgent      string

	ESIURL     string
	ESITimeout time.Duration
}

// Client long-polls the RedisQ endpoint and resolves killmail bodies from ESI.
// Poll must be driven by a single goroutine; FetchDetail is safe to call
// concurrently.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   *expirable.LRU[string, *ESIKillmail]

	// consecutive poll failures, reset after any successful poll
	failures int

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new queue client
func NewClient(cfg Config) *Client {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Client{
		cfg:     cfg,
		http:    newHTTPClient(),
		limiter: rate.NewLimiter(limit, 1),
		cache:   expirable.NewLRU[string, *ESIKillmail](DetailCacheSize, nil, DetailCacheTTL),
		sleep:   sleepContext,
	}
}

// newHTTPClient builds the shared transport. Timeouts are applied per call
// through the request context.
func newHTTPClient() *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Transport: tr,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf(ErrMsgTooManyRedirects, MaxRedirects)
			}
			return nil
		},
	}
}

// Poll blocks until the queue returns a package or an empty reply. A nil
// package means the queue was empty. Rate limits and transport failures are
// retried internally; Poll only returns an error when ctx is done or the
// response body cannot be decoded.
func (c *Client) Poll(ctx context.Context) (*Package, error) {
	log := logger.FromContext(ctx)

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := c.listen(ctx)
		metrics.PollDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.PollsTotal.WithLabelValues(metrics.OutcomeNetwork).Inc()
			if err := c.backoff(ctx, err); err != nil {
				return nil, err
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			pkg, err := decodeEnvelope(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			c.failures = 0
			if pkg == nil {
				metrics.PollsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
			} else {
				metrics.PollsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
			}
			return pkg, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			wait := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
			drain(resp.Body)
			metrics.PollsTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
			log.Warn(LogMsgRateLimited, "retry_after", wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}

		default:
			outcome := metrics.OutcomeServerError
			if resp.StatusCode < http.StatusInternalServerError {
				outcome = metrics.OutcomeClientError
			}
			drain(resp.Body)
			metrics.PollsTotal.WithLabelValues(outcome).Inc()
			if err := c.backoff(ctx, fmt.Errorf(ErrMsgUnexpectedStatus, resp.StatusCode)); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Client) listen(ctx context.Context) (*http.Response, error) {
	q := url.Values{}
	q.Set(QueryQueueID, c.cfg.QueueID)
	q.Set(QueryTTW, strconv.Itoa(c.cfg.TTW))

	// cancel is deferred to Body.Close
	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TTW)*time.Second+PollTimeoutSlack)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.cfg.BaseURL+ListenPath+"?"+q.Encode(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf(ErrMsgBuildRequestFailed, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// backoff sleeps initial * 2^n capped at max, where n is the number of
// consecutive failures so far
func (c *Client) backoff(ctx context.Context, cause error) error {
	delay := c.cfg.BackoffInitial
	for i := 0; i < c.failures && delay < c.cfg.BackoffMax; i++ {
		delay *= 2
	}
	if delay > c.cfg.BackoffMax {
		delay = c.cfg.BackoffMax
	}
	c.failures++

	logger.FromContext(ctx).Warn(LogMsgPollBackoff, "error", cause, "attempt", c.failures, "delay", delay)
	return c.sleep(ctx, delay)
}

// FetchDetail fetches the ESI killmail body. Any failure is reported as
// domain.ErrDetailUnavailable; callers skip the package.
func (c *Client) FetchDetail(ctx context.Context, killID int64, hash string) (*ESIKillmail, error) {
	if hash == "" {
		return nil, fmt.Errorf(ErrMsgMissingHash, domain.ErrDetailUnavailable, killID)
	}

	key := strconv.FormatInt(killID, 10) + ":" + hash
	if km, ok := c.cache.Get(key); ok {
		metrics.DetailFetches.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		logger.FromContext(ctx).Debug(LogMsgDetailCacheHit, "killmail_id", killID)
		return km, nil
	}

	km, err := c.fetchDetail(ctx, killID, hash)
	if err != nil {
		metrics.DetailFetches.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return nil, err
	}

	metrics.DetailFetches.WithLabelValues(metrics.OutcomeOK).Inc()
	c.cache.Add(key, km)
	return km, nil
}

func (c *Client) fetchDetail(ctx context.Context, killID int64, hash string) (*ESIKillmail, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgDetailRequest, domain.ErrDetailUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ESITimeout)
	defer cancel()

	endpoint := c.cfg.ESIURL + fmt.Sprintf(KillmailPathFmt, killID, url.PathEscape(hash)) +
		"?" + QueryDatasource + "=" + DatasourceTQ
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDetailRequest, domain.ErrDetailUnavailable, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDetailRequest, domain.ErrDetailUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return nil, fmt.Errorf(ErrMsgDetailStatus, domain.ErrDetailUnavailable, resp.StatusCode)
	}

	var km ESIKillmail
	if err := json.NewDecoder(resp.Body).Decode(&km); err != nil {
		return nil, fmt.Errorf(ErrMsgDetailRequest, domain.ErrDetailUnavailable, err)
	}
	return &km, nil
}

// Resolve fills in the killmail body of a package that omitted it
func (c *Client) Resolve(ctx context.Context, pkg *Package) error {
	if !pkg.NeedsDetail() {
		return nil
	}
	km, err := c.FetchDetail(ctx, pkg.KillID, pkg.ZKB.Hash)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDetailUnavailable, "killmail_id", pkg.KillID, "error", err)
		return err
	}
	pkg.Killmail = km
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
}

func decodeEnvelope(body io.Reader) (*Package, error) {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeFailed, err)
	}
	if env.Package == nil || env.Package.KillID == 0 && env.Package.Killmail == nil {
		return nil, nil
	}
	if env.Package.KillID == 0 {
		env.Package.KillID = env.Package.Killmail.KillmailID
	}
	return env.Package, nil
}

// parseRetryAfter accepts delta-seconds or an HTTP date
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return DefaultRetryAfter
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return DefaultRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return DefaultRetryAfter
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// cancelOnClose releases the per-request timeout once the body is consumed
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// IsDetailUnavailable reports whether err means the package should be skipped
func IsDetailUnavailable(err error) bool {
	return errors.Is(err, domain.ErrDetailUnavailable)
}
