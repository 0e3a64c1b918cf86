package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"facturita/internal/core"
)

// Client talks to a remote facturita backend over HTTP. Connection failures
// and non-JSON responses are reported as ErrUnavailable so the container can
// fall back to its local dataset.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ API = (*Client)(nil)

// NewClient builds a client for the given base URL, e.g. "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type taxTotalsResponse struct {
	Success bool            `json:"success"`
	Data    []core.TaxTotal `json:"data"`
	Period  string          `json:"periodo"`
}

type expensesResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Expenses  []core.Expense              `json:"gastos"`
		Summaries []core.EntityExpenseSummary `json:"gastosPorEntidad"`
	} `json:"data"`
}

type collectionsResponse struct {
	Success bool              `json:"success"`
	Data    []core.Collection `json:"data"`
}

type invoiceResponse struct {
	Success bool         `json:"success"`
	Invoice core.Invoice `json:"factura"`
	Message string       `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		TotalCollected core.Money `json:"totalRecaudaciones"`
	} `json:"data"`
}

func (c *Client) TaxTotals(ctx context.Context, period string) ([]core.TaxTotal, string, error) {
	var out taxTotalsResponse
	q := url.Values{}
	if period != "" {
		q.Set("periodo", period)
	}
	if err := c.get(ctx, "/api/arca/facturacion", q, &out); err != nil {
		return nil, "", err
	}
	return out.Data, out.Period, nil
}

func (c *Client) Expenses(ctx context.Context, entityID string) ([]core.Expense, []core.EntityExpenseSummary, error) {
	var out expensesResponse
	q := url.Values{}
	if entityID != "" {
		q.Set("entidadId", entityID)
	}
	if err := c.get(ctx, "/api/gastos", q, &out); err != nil {
		return nil, nil, err
	}
	return out.Data.Expenses, out.Data.Summaries, nil
}

func (c *Client) Collections(ctx context.Context, pointID string) ([]core.Collection, error) {
	var out collectionsResponse
	q := url.Values{}
	if pointID != "" {
		q.Set("punto", pointID)
	}
	if err := c.get(ctx, "/api/recaudaciones", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) SubmitInvoice(ctx context.Context, req core.BillRequest) (core.Invoice, error) {
	var out invoiceResponse
	if err := c.post(ctx, "/api/facturar", req, &out); err != nil {
		return core.Invoice{}, err
	}
	if !out.Success {
		return core.Invoice{}, errors.New(out.Message)
	}
	return out.Invoice, nil
}

func (c *Client) ResetDemo(ctx context.Context) error {
	var out messageResponse
	return c.post(ctx, "/api/demo/reset", nil, &out)
}

func (c *Client) RegenerateDemo(ctx context.Context) (core.Money, error) {
	var out messageResponse
	if err := c.post(ctx, "/api/demo/generate", nil, &out); err != nil {
		return core.Money{}, err
	}
	return out.Data.TotalCollected, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionFailure(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	ct, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if ct != "application/json" {
		// A proxy error page or a dev server answering with HTML means
		// the backend is not really there.
		return fmt.Errorf("%w: unexpected content type %q", ErrUnavailable, ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	// Error envelopes carry their message in the decoded payload; only
	// plain non-2xx responses without one are surfaced as-is.
	if resp.StatusCode >= 400 {
		var env struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &env) == nil && env.Message != "" {
			return errors.New(env.Message)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func isConnectionFailure(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, context.DeadlineExceeded)
}
