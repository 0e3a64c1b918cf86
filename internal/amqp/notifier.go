package amqp

import (
	"context"
	"log/slog"

	"facturita/internal/core"
)

// Notifier adapts the client to the notify.Notifier interface. Publish
// failures are logged and swallowed: losing an audit record must never fail
// a billing request.
type Notifier struct {
	client *Client
}

func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) InvoiceIssued(ctx context.Context, inv core.Invoice) {
	if n.client == nil {
		return
	}
	if err := n.client.PublishInvoiceEvent(ctx, NewIssuedMessage(inv)); err != nil {
		slog.ErrorContext(ctx, "Failed publishing invoice-issued event", "error", err, "invoice", inv.ID)
	}
}

func (n *Notifier) InvoiceRejected(ctx context.Context, message string) {
	if n.client == nil {
		return
	}
	if err := n.client.PublishInvoiceEvent(ctx, NewRejectedMessage(message)); err != nil {
		slog.ErrorContext(ctx, "Failed publishing invoice-rejected event", "error", err)
	}
}
