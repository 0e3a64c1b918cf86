// Package notify carries the billing workflow's fire-and-forget events to
// interested observers: the dashboard's toast feed, the websocket hub, and
// (when configured) the AMQP audit queue.
package notify

import (
	"context"
	"time"

	"facturita/internal/core"
)

const (
	EventInvoiceIssued   = "facturacion-success"
	EventInvoiceRejected = "facturacion-error"
)

// Event is a single billing notification.
type Event struct {
	Type      string        `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Invoice   *core.Invoice `json:"factura,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// Notifier receives billing outcomes. Implementations must not block the
// billing path.
type Notifier interface {
	InvoiceIssued(ctx context.Context, inv core.Invoice)
	InvoiceRejected(ctx context.Context, message string)
}

// Funcs adapts plain functions to a Notifier.
type Funcs struct {
	Issued   func(ctx context.Context, inv core.Invoice)
	Rejected func(ctx context.Context, message string)
}

func (f Funcs) InvoiceIssued(ctx context.Context, inv core.Invoice) {
	if f.Issued != nil {
		f.Issued(ctx, inv)
	}
}

func (f Funcs) InvoiceRejected(ctx context.Context, message string) {
	if f.Rejected != nil {
		f.Rejected(ctx, message)
	}
}

// Multi fans an event out to every registered notifier in order.
type Multi []Notifier

func (m Multi) InvoiceIssued(ctx context.Context, inv core.Invoice) {
	for _, n := range m {
		n.InvoiceIssued(ctx, inv)
	}
}

func (m Multi) InvoiceRejected(ctx context.Context, message string) {
	for _, n := range m {
		n.InvoiceRejected(ctx, message)
	}
}
