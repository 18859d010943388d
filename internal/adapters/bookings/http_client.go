package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

// HTTPClient implements the BookingSource port against the appointments
// API that owns all booking state. It only ever reads.
type HTTPClient struct {
	session *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
}

func NewHTTPClient(baseURL, token string) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("bookings base URL is empty")
	}

	return &HTTPClient{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// Validation re-reads every candidate individually; keep the burst
		// well under the provider's per-minute budget.
		limiter: rate.NewLimiter(rate.Every(120*time.Millisecond), 10),
	}, nil
}

type bookingPayload struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	StartAt    string `json:"start_at"`
	Status     string `json:"status"`
}

type customerPayload struct {
	ID         string `json:"id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Address    struct {
		AddressLine1 string `json:"address_line_1"`
		Locality     string `json:"locality"`
		PostalCode   string `json:"postal_code"`
	} `json:"address"`
}

// wrapSourceErr wraps transport failures while letting taxonomy errors
// (rate limiting in particular) keep their own reason code.
func wrapSourceErr(op string, err error) error {
	var r domain.Reasoner
	if errors.As(err, &r) {
		return err
	}
	return &domain.BookingSourceError{Op: op, Err: err}
}

func (p bookingPayload) toDomain() (domain.Booking, error) {
	b := domain.Booking{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		Status:     domain.ParseBookingStatus(p.Status),
	}
	if p.StartAt != "" {
		t, err := time.Parse(time.RFC3339, p.StartAt)
		if err != nil {
			return domain.Booking{}, fmt.Errorf("booking %s: parse start_at %q: %w", p.ID, p.StartAt, err)
		}
		b.StartAt = t
	}
	return b, nil
}

// ListBookings fetches candidates for a location and window.
func (c *HTTPClient) ListBookings(ctx context.Context, locationID string, window domain.TimeWindow) (_ []domain.Booking, err error) {
	defer func() { obs.ObserveExternal("bookings", "list", err) }()

	q := url.Values{}
	q.Set("location_id", locationID)
	q.Set("start_at_min", window.Start.UTC().Format(time.RFC3339))
	q.Set("start_at_max", window.End.UTC().Format(time.RFC3339))
	endpoint := c.baseURL + "/v2/bookings?" + q.Encode()

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return nil, wrapSourceErr("list bookings", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Bookings []bookingPayload `json:"bookings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.BookingSourceError{Op: "decode booking list", Err: err}
	}

	out := make([]domain.Booking, 0, len(decoded.Bookings))
	for _, p := range decoded.Bookings {
		b, err := p.toDomain()
		if err != nil {
			// One malformed record must not abort the batch.
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// GetBooking is the authoritative per-booking freshness check.
func (c *HTTPClient) GetBooking(ctx context.Context, id string) (_ domain.Booking, err error) {
	defer func() { obs.ObserveExternal("bookings", "get", err) }()

	if strings.TrimSpace(id) == "" {
		return domain.Booking{}, errors.New("get booking: id must be non-empty")
	}
	endpoint := c.baseURL + "/v2/bookings/" + url.PathEscape(id)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return domain.Booking{}, ports.ErrBookingNotFound
		}
		return domain.Booking{}, wrapSourceErr("get booking "+id, err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Booking bookingPayload `json:"booking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Booking{}, &domain.BookingSourceError{Op: "decode booking " + id, Err: err}
	}

	b, err := decoded.Booking.toDomain()
	if err != nil {
		return domain.Booking{}, &domain.BookingSourceError{Op: "parse booking " + id, Err: err}
	}
	return b, nil
}

// GetCustomer resolves the customer record a booking points at.
func (c *HTTPClient) GetCustomer(ctx context.Context, customerID string) (_ domain.Customer, err error) {
	defer func() { obs.ObserveExternal("bookings", "get_customer", err) }()

	if strings.TrimSpace(customerID) == "" {
		return domain.Customer{}, errors.New("get customer: id must be non-empty")
	}
	endpoint := c.baseURL + "/v2/customers/" + url.PathEscape(customerID)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return domain.Customer{}, ports.ErrCustomerNotFound
		}
		return domain.Customer{}, wrapSourceErr("get customer "+customerID, err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Customer customerPayload `json:"customer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Customer{}, &domain.BookingSourceError{Op: "decode customer " + customerID, Err: err}
	}

	p := decoded.Customer
	address := strings.TrimSpace(p.Address.AddressLine1)
	if address != "" {
		parts := []string{address}
		if loc := strings.TrimSpace(p.Address.Locality); loc != "" {
			parts = append(parts, loc)
		}
		if zip := strings.TrimSpace(p.Address.PostalCode); zip != "" {
			parts = append(parts, zip)
		}
		address = strings.Join(parts, ", ")
	}

	return domain.Customer{
		ID:         p.ID,
		GivenName:  p.GivenName,
		FamilyName: p.FamilyName,
		Address:    address,
	}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry mirrors the directions client: a bounded loop with exponential
// backoff on 429/5xx/network errors, RateLimitError once the cap is spent.
func (c *HTTPClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		rateLimited := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests:
				retry = true
				rateLimited = true
			case 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			if rateLimited {
				return nil, &domain.RateLimitError{Service: "bookings", Attempts: attempt}
			}
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
