// Package httpclient talks to the order API on behalf of one session. It is the
// transport behind the sync engine.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/syncengine"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response of the order API.
type APIError struct {
	Status  int
	Kind    errs.Kind
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order api: %d %s: %s", e.Status, e.Kind, e.Message)
}

// Unwrap maps the reported kind back to the sentinel, so callers can use errors.Is
// across the wire.
func (e *APIError) Unwrap() error {
	switch e.Kind {
	case errs.KindValidation:
		return errs.ErrValueIsInvalid
	case errs.KindInvalidTransition:
		return errs.ErrInvalidTransition
	case errs.KindVersionConflict:
		return errs.ErrVersionConflict
	case errs.KindInsufficientFunds:
		return errs.ErrInsufficientFunds
	case errs.KindNotFound:
		return errs.ErrObjectNotFound
	case errs.KindForbidden:
		return errs.ErrAccessDenied
	default:
		return nil
	}
}

// Client implements syncengine.Gateway over HTTP.
type Client struct {
	baseURL *url.URL
	token   string
	session ports.Session
	http    *http.Client
}

var _ syncengine.Gateway = (*Client)(nil)

// New creates a client for session authenticating with token. A nil httpClient gets a
// client with a 10 second timeout.
func New(baseURL, token string, session ports.Session, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("baseURL", fmt.Errorf("%q is not an absolute url", baseURL))
	}
	if strings.TrimSpace(token) == "" {
		return nil, errs.NewValueIsRequiredError("token")
	}
	if err = errors.Join(session.UserID.Validate(), session.Role.Validate()); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{baseURL: base, token: token, session: session, http: httpClient}, nil
}

type orderBody struct {
	ID        kernel.UUID  `json:"id"`
	BuyerID   kernel.UUID  `json:"buyerId"`
	SellerID  kernel.UUID  `json:"sellerId"`
	CourierID *kernel.UUID `json:"courierId"`
	Status    string       `json:"status"`
	Total     int64        `json:"total"`
	Version   int64        `json:"version"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (b orderBody) state() syncengine.OrderState {
	return syncengine.OrderState{
		ID:        b.ID,
		BuyerID:   b.BuyerID,
		SellerID:  b.SellerID,
		CourierID: b.CourierID,
		Status:    order.Status(b.Status),
		Version:   b.Version,
		Total:     kernel.Money(b.Total),
		UpdatedAt: b.UpdatedAt,
	}
}

type balanceBody struct {
	Available int64 `json:"available"`
	Pending   int64 `json:"pending"`
}

type statusChangeBody struct {
	Status          string       `json:"status"`
	ExpectedVersion int64        `json:"expectedVersion"`
	CourierID       *kernel.UUID `json:"courierId,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ListOrders returns the orders the session may see.
func (c *Client) ListOrders(ctx context.Context) ([]syncengine.OrderState, error) {
	var bodies []orderBody
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &bodies); err != nil {
		return nil, err
	}

	out := make([]syncengine.OrderState, len(bodies))
	for i, b := range bodies {
		out[i] = b.state()
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id kernel.UUID) (syncengine.OrderState, error) {
	var body orderBody
	if err := c.do(ctx, http.MethodGet, "/orders/"+id.String(), nil, &body); err != nil {
		return syncengine.OrderState{}, err
	}
	return body.state(), nil
}

func (c *Client) ApplyTransition(ctx context.Context, req syncengine.TransitionRequest) (syncengine.OrderState, error) {
	payload := statusChangeBody{
		Status:          req.Target.String(),
		ExpectedVersion: req.ExpectedVersion,
		CourierID:       req.CourierID,
	}

	var body orderBody
	if err := c.do(ctx, http.MethodPatch, "/orders/"+req.OrderID.String()+"/status", payload, &body); err != nil {
		return syncengine.OrderState{}, err
	}
	return body.state(), nil
}

// GetBalance reads the session user's own wallet.
func (c *Client) GetBalance(ctx context.Context) (syncengine.Balance, error) {
	var body balanceBody
	if err := c.do(ctx, http.MethodGet, "/wallet/"+c.session.UserID.String(), nil, &body); err != nil {
		return syncengine.Balance{}, err
	}
	return syncengine.Balance{Available: kernel.Money(body.Available), Pending: kernel.Money(body.Pending)}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Kind: errs.KindInternal, Message: http.StatusText(resp.StatusCode)}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Kind != "" {
		apiErr.Kind = errs.Kind(body.Kind)
		apiErr.Message = body.Message
	}
	return apiErr
}
