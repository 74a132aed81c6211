package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/jma1999/RIG/engine/record"
	"github.com/jma1999/RIG/pkg/natsutil"
)

const (
	// IngestSubject carries resolution requests.
	IngestSubject = "rig.ingest"
	// ReportSubject carries pass reports for completed requests.
	ReportSubject = "rig.ingest.report"
	// DLQSubject is the dead letter queue for repeatedly failing requests.
	DLQSubject = "rig.ingest.dlq"
	// MaxRetries before a request goes to the DLQ.
	MaxRetries = 3
)

// Request is a resolution request received over NATS: a model document
// plus an optional source tag overriding the configured one.
type Request struct {
	Source string          `json:"source,omitempty"`
	Model  json.RawMessage `json:"model"`
}

// dlqMessage is published to the DLQ on repeated failure.
type dlqMessage struct {
	Request Request `json:"request"`
	Error   string  `json:"error"`
	Retries int     `json:"retries"`
}

// StartConsumer subscribes to IngestSubject and runs each request through
// a resolution pass, with retry and DLQ support. Completed passes publish
// their report on ReportSubject.
func StartConsumer(nc *nats.Conn, deps Deps, cfg Config) (*nats.Subscription, error) {
	cfg.ApplyDefaults()
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return natsutil.SubscribeRaw(nc, IngestSubject, func(ctx context.Context, msg *nats.Msg) {
		var req Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Error("ingest: unmarshal failed", "error", err)
			return
		}

		retries := 0
		if msg.Header != nil {
			if v := msg.Header.Get("X-Retry-Count"); v != "" {
				fmt.Sscanf(v, "%d", &retries)
			}
		}

		report, err := handleRequest(ctx, deps, cfg, req)
		if err != nil {
			retries++
			log.Error("ingest: pass failed", "error", err, "retry", retries)

			if retries >= MaxRetries {
				dlq := dlqMessage{Request: req, Error: err.Error(), Retries: retries}
				if perr := natsutil.Publish(ctx, nc, DLQSubject, dlq); perr != nil {
					log.Error("ingest: DLQ publish failed", "error", perr)
				}
				return
			}
			retryMsg := nats.NewMsg(IngestSubject)
			retryMsg.Data = msg.Data
			retryMsg.Header.Set("X-Retry-Count", fmt.Sprintf("%d", retries))
			if perr := natsutil.PublishMsg(ctx, nc, retryMsg); perr != nil {
				log.Error("ingest: retry publish failed", "error", perr)
			}
			return
		}

		if perr := natsutil.Publish(ctx, nc, ReportSubject, report); perr != nil {
			log.Error("ingest: report publish failed", "error", perr)
		}
	})
}

func handleRequest(ctx context.Context, deps Deps, cfg Config, req Request) (*Report, error) {
	table, err := record.ParseTable(req.Model)
	if err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if req.Source != "" {
		cfg.Source = req.Source
	}
	return Run(ctx, deps, table, cfg)
}
