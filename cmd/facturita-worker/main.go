package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"facturita/internal/amqp"
	"facturita/internal/cli"
)

// auditWriter appends one JSON line per consumed invoice event.
type auditWriter struct {
	mu   sync.Mutex
	file *os.File
}

func newAuditWriter(path string) (*auditWriter, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &auditWriter{file: f}, nil
}

func (w *auditWriter) Append(msg *amqp.InvoiceEventMessage) error {
	record := struct {
		ReceivedAt time.Time                 `json:"received_at"`
		Message    *amqp.InvoiceEventMessage `json:"message"`
	}{time.Now().UTC(), msg}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

func (w *auditWriter) Close() error {
	return w.file.Close()
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	logger.Info("Starting facturita-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"audit_log", cfg.AuditLogPath)

	audit, err := newAuditWriter(cfg.AuditLogPath)
	if err != nil {
		logger.Error("Failed to open audit log", "error", err, "path", cfg.AuditLogPath)
		os.Exit(1)
	}
	defer audit.Close()

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	err = amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, func(msg *amqp.InvoiceEventMessage) error {
		if err := audit.Append(msg); err != nil {
			return err
		}
		logger.Info("Invoice event recorded",
			"event", msg.Event,
			"invoice_id", msg.InvoiceID)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
