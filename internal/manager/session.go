package manager

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"
)

// Connect retry defaults: 120 attempts at 30s intervals, roughly one hour of
// waiting for a management plane that is still booting.
const (
	DefaultConnectTimeout = time.Hour
	DefaultRetryInterval  = 30 * time.Second
)

// Session is a single authenticated HTTP session against the management
// plane. It is not safe for concurrent mutation; an orchestration run uses
// exactly one session sequentially.
type Session struct {
	endpoint Endpoint
	base     string
	http     *http.Client
	token    string
	log      logr.Logger
	closed   bool
}

// ConnectOption adjusts connect retry behavior.
type ConnectOption func(*connectConfig)

type connectConfig struct {
	timeout  time.Duration
	interval time.Duration
}

// WithConnectTimeout bounds the total time spent retrying the connection.
func WithConnectTimeout(d time.Duration) ConnectOption {
	return func(c *connectConfig) { c.timeout = d }
}

// WithRetryInterval sets the fixed delay between connect attempts.
func WithRetryInterval(d time.Duration) ConnectOption {
	return func(c *connectConfig) { c.interval = d }
}

// Connect establishes an authenticated session, retrying transient failures
// at a fixed interval until the retry budget (timeout / interval) runs out.
// Credential rejection and other unexpected failures are terminal and
// surface immediately as *AuthenticationError and *SessionError; exhausting
// the budget surfaces *ConnectionError wrapping the last cause.
func Connect(ctx context.Context, endpoint Endpoint, log logr.Logger, opts ...ConnectOption) (*Session, error) {
	cfg := connectConfig{timeout: DefaultConnectTimeout, interval: DefaultRetryInterval}
	for _, opt := range opts {
		opt(&cfg)
	}

	attempts := int(cfg.timeout / cfg.interval)
	if attempts < 1 {
		attempts = 1
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, &SessionError{Err: err}
	}

	session := &Session{
		endpoint: endpoint,
		base:     endpoint.BaseURL(),
		log:      log,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Jar:     jar,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !endpoint.VerifyTLS}, // #nosec G402
			},
		},
	}

	log.Info("connecting to management plane", "url", session.base)

	attempt := 0
	err = retry.Do(
		func() error {
			attempt++
			loginErr := session.login(ctx)
			if loginErr == nil {
				return nil
			}
			if IsUnauthorized(loginErr) {
				return retry.Unrecoverable(&AuthenticationError{Username: endpoint.Username, Err: loginErr})
			}
			if !isTransient(loginErr) {
				return retry.Unrecoverable(&SessionError{Err: loginErr})
			}
			if attempt%10 == 0 {
				log.Info("waiting for management plane API", "attempt", attempt, "maxAttempts", attempts)
			}
			return loginErr
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(cfg.interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var authErr *AuthenticationError
		var sessErr *SessionError
		switch {
		case errors.As(err, &authErr):
			return nil, authErr
		case errors.As(err, &sessErr):
			return nil, sessErr
		default:
			return nil, &ConnectionError{Attempts: attempts, Err: err}
		}
	}

	log.Info("connected to management plane")
	return session, nil
}

// login performs the form-based authentication handshake and fetches the
// CSRF token required on subsequent calls.
func (s *Session) login(ctx context.Context) error {
	form := url.Values{
		"j_username": {s.endpoint.Username},
		"j_password": {s.endpoint.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/j_security_check",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Path: "/j_security_check", Body: string(body)}
	}
	// The management plane answers failed logins with 200 and an HTML login
	// page instead of a 401.
	if strings.Contains(string(body), "<html") {
		return &APIError{StatusCode: http.StatusUnauthorized, Path: "/j_security_check", Body: "Unauthorized"}
	}

	token, err := s.fetchToken(ctx)
	if err != nil {
		return err
	}
	s.token = token
	return nil
}

func (s *Session) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/dataservice/client/token", nil)
	if err != nil {
		return "", err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	body, err := readBody(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Path: "/dataservice/client/token", Body: string(body)}
	}
	return strings.TrimSpace(string(body)), nil
}

// Response is a raw management plane reply. Non-2xx replies are returned to
// the caller for classification, not turned into errors here.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the reply carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode management API response: %w", err)
	}
	return nil
}

// Get issues a GET against a dataservice path relative to the base URL.
func (s *Session) Get(ctx context.Context, path string) (*Response, error) {
	return s.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body against a dataservice path.
func (s *Session) Post(ctx context.Context, path string, payload any) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", path, err)
	}
	return s.do(ctx, http.MethodPost, path, data)
}

func (s *Session) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+"/"+strings.TrimPrefix(path, "/"), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("X-XSRF-TOKEN", s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// Close releases the session. It is idempotent and safe to call when the
// session was never established.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true

	// Logout is best-effort; the server expires the cookie on its own.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.Get(ctx, "logout"); err != nil {
		s.log.V(1).Info("logout failed", "error", err.Error())
	}
	s.http.CloseIdleConnections()
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}
