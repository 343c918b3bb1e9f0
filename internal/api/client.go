package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/richgang/fxpulse/internal/core"
	"go.uber.org/zap"
)

// HeaderSource supplies the Authorization header value for a request.
// An empty value means no credential is held; the backend will reject
// the request with 401.
type HeaderSource interface {
	AuthHeader() string
}

// StaticHeader is a HeaderSource around a fixed token.
type StaticHeader string

func (s StaticHeader) AuthHeader() string {
	if s == "" {
		return ""
	}
	return "Bearer " + string(s)
}

// Client talks to the signal backend's REST surface under /api.
type Client struct {
	rc     *resty.Client
	header HeaderSource
	logger *zap.Logger
}

// NewClient creates a backend client. header may be nil for a client
// that only performs unauthenticated calls.
func NewClient(baseURL string, timeout time.Duration, header HeaderSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rc := resty.New()
	rc.SetBaseURL(baseURL)
	rc.SetTimeout(timeout)

	return &Client{rc: rc, header: header, logger: logger}
}

// SetHeaderSource replaces the header source. It closes the
// construction cycle between the client and the session manager and
// must be called before the first authenticated request.
func (c *Client) SetHeaderSource(h HeaderSource) {
	c.header = h
}

// r builds a request with the current auth header attached.
func (c *Client) r(ctx context.Context) *resty.Request {
	req := c.rc.R().SetContext(ctx)
	if c.header != nil {
		if h := c.header.AuthHeader(); h != "" {
			req.SetHeader("Authorization", h)
		}
	}
	return req
}

// check maps transport failures and error statuses onto the error taxonomy.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return core.WrapError(core.ErrAPIFailed, err)
	}
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return core.ErrUnauthorized
	case http.StatusForbidden:
		return core.ErrForbidden
	}
	if resp.IsError() {
		return core.WrapError(core.ErrAPIFailed,
			fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}
	return nil
}

// LoginResult is the token grant returned by /auth/login.
type LoginResult struct {
	Token string    `json:"token"`
	Role  core.Role `json:"role"`
	Name  string    `json:"name"`
}

// Login exchanges an access code for a token grant. A rejected code
// yields ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, code string) (*LoginResult, error) {
	var out LoginResult
	resp, err := c.rc.R().SetContext(ctx).
		SetBody(map[string]string{"code": code}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return nil, core.WrapError(core.ErrAPIFailed, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, core.ErrInvalidCredentials
	}
	if resp.IsError() {
		return nil, core.WrapError(core.ErrAPIFailed,
			fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}
	return &out, nil
}

// Verify validates a token against the backend and resolves the
// identity behind it. The token is passed explicitly so verification
// can run before the session holds it.
func (c *Client) Verify(ctx context.Context, token string) (*core.Identity, error) {
	var out struct {
		Valid bool      `json:"valid"`
		Role  core.Role `json:"role"`
		Name  string    `json:"name"`
	}
	resp, err := c.rc.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetResult(&out).
		Post("/auth/verify")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return &core.Identity{Role: out.Role, Name: out.Name}, nil
}

// ListAccessCodes lists all access codes. Owner only.
func (c *Client) ListAccessCodes(ctx context.Context) ([]core.AccessCode, error) {
	var out []core.AccessCode
	resp, err := c.r(ctx).SetResult(&out).Get("/access-codes")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return out, nil
}

// CreateAccessCode creates a named access code. Owner only.
func (c *Client) CreateAccessCode(ctx context.Context, name string) (*core.AccessCode, error) {
	var out core.AccessCode
	resp, err := c.r(ctx).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).
		Post("/access-codes")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return &out, nil
}

// RevokeAccessCode deactivates an access code by id. Owner only.
func (c *Client) RevokeAccessCode(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete("/access-codes/" + id)
	return c.check(resp, err)
}

// Market fetches quotes for every served symbol.
func (c *Client) Market(ctx context.Context) (map[string]core.MarketData, error) {
	var out map[string]core.MarketData
	resp, err := c.r(ctx).SetResult(&out).Get("/market")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return out, nil
}

// MarketSymbol fetches the quote for a single symbol.
func (c *Client) MarketSymbol(ctx context.Context, symbol string) (*core.MarketData, error) {
	if !core.ValidSymbol(symbol) {
		return nil, core.WrapError(core.ErrSymbolUnknown, fmt.Errorf("symbol %q", symbol))
	}
	var out core.MarketData
	resp, err := c.r(ctx).SetResult(&out).Get("/market/" + symbol)
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("symbol %q", symbol))
	}
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return &out, nil
}

// ActiveSignals fetches signals in ACTIVE, TP1_HIT or TP2_HIT status.
func (c *Client) ActiveSignals(ctx context.Context) ([]core.Signal, error) {
	var out []core.Signal
	resp, err := c.r(ctx).SetResult(&out).Get("/signals")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return out, nil
}

// PendingSignals fetches pending signals sorted by confidence.
func (c *Client) PendingSignals(ctx context.Context) ([]core.Signal, error) {
	var out []core.Signal
	resp, err := c.r(ctx).SetResult(&out).Get("/signals/pending")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return out, nil
}

// GenerateSignal asks the engine for a new signal. Owner only. When
// conditions are not met the backend answers with a message instead of
// a signal; that is returned as (nil, message, nil), not as an error.
func (c *Client) GenerateSignal(ctx context.Context, symbol string) (*core.Signal, string, error) {
	if !core.ValidSymbol(symbol) {
		return nil, "", core.WrapError(core.ErrSymbolUnknown, fmt.Errorf("symbol %q", symbol))
	}
	resp, err := c.r(ctx).
		SetQueryParam("symbol", symbol).
		Post("/signals/generate")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, "", cerr
	}

	var probe struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &probe); err != nil {
		return nil, "", core.WrapError(core.ErrAPIFailed, err)
	}
	if probe.ID == "" {
		return nil, probe.Message, nil
	}

	var sig core.Signal
	if err := json.Unmarshal(resp.Body(), &sig); err != nil {
		return nil, "", core.WrapError(core.ErrAPIFailed, err)
	}
	return &sig, "", nil
}

// Direction fetches the global direction lock.
func (c *Client) Direction(ctx context.Context) (*core.DirectionState, error) {
	var out core.DirectionState
	resp, err := c.r(ctx).SetResult(&out).Get("/direction")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return &out, nil
}

// ResetDirection resets the global direction to NEUTRAL. Owner only.
func (c *Client) ResetDirection(ctx context.Context) error {
	resp, err := c.r(ctx).Post("/direction/reset")
	return c.check(resp, err)
}

// TradingSessions fetches the per-symbol session windows.
func (c *Client) TradingSessions(ctx context.Context) (map[string]core.SessionWindow, error) {
	var out map[string]core.SessionWindow
	resp, err := c.r(ctx).SetResult(&out).Get("/sessions")
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return out, nil
}

// History fetches the ordered OHLC history for a symbol.
func (c *Client) History(ctx context.Context, symbol string) ([]core.Candle, error) {
	if !core.ValidSymbol(symbol) {
		return nil, core.WrapError(core.ErrSymbolUnknown, fmt.Errorf("symbol %q", symbol))
	}
	var out []core.Candle
	resp, err := c.r(ctx).SetResult(&out).Get("/history/" + symbol)
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return out, nil
}
