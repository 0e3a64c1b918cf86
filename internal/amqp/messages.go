package amqp

import (
	"encoding/json"
	"time"

	"facturita/internal/core"
	"facturita/internal/notify"
)

// InvoiceEventMessage is the wire form of a billing outcome on the audit
// queue. Rejections carry only the message text.
type InvoiceEventMessage struct {
	Event     string        `json:"event"`
	InvoiceID string        `json:"invoiceId,omitempty"`
	Invoice   *core.Invoice `json:"factura,omitempty"`
	Message   string        `json:"message,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewIssuedMessage(inv core.Invoice) *InvoiceEventMessage {
	return &InvoiceEventMessage{
		Event:     notify.EventInvoiceIssued,
		InvoiceID: inv.ID,
		Invoice:   &inv,
		Timestamp: time.Now(),
	}
}

func NewRejectedMessage(message string) *InvoiceEventMessage {
	return &InvoiceEventMessage{
		Event:     notify.EventInvoiceRejected,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (m *InvoiceEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func InvoiceEventMessageFromJSON(data []byte) (*InvoiceEventMessage, error) {
	var msg InvoiceEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
