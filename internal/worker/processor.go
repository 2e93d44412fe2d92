package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/evidence"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/notify"
	pdfutil "github.com/ahmetcoskunkizilkaya/fraudwatch/internal/pdf"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/queue"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/store"
)

// TextSuffix is appended to a stored evidence name for its extracted text.
const TextSuffix = ".txt"

// Processor handles the background tasks queued after a submission.
type Processor struct {
	store    store.Store
	evidence evidence.Storage
	sender   notify.Sender
	maxBytes int64
}

func NewProcessor(st store.Store, ev evidence.Storage, sender notify.Sender, maxBytes int64) *Processor {
	return &Processor{store: st, evidence: ev, sender: sender, maxBytes: maxBytes}
}

// Handler registers the task handlers.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.NotifyReportTask, p.HandleNotify)
	mux.HandleFunc(queue.ExtractEvidenceTask, p.HandleExtract)
	return mux
}

func (p *Processor) HandleNotify(ctx context.Context, task *asynq.Task) error {
	var payload queue.NotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	report, err := p.store.Read(ctx, payload.ReportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("notify skipped: report missing", "report_id", payload.ReportID)
			return fmt.Errorf("report %s: %w", payload.ReportID, asynq.SkipRetry)
		}
		return err
	}
	if err := p.sender.Send(ctx, notify.ReportSummary(report)); err != nil {
		slog.Error("admin notification failed", "report_id", payload.ReportID, "error", err)
		return err
	}
	slog.Info("admin notified", "report_id", payload.ReportID)
	return nil
}

func (p *Processor) HandleExtract(ctx context.Context, task *asynq.Task) error {
	var payload queue.ExtractPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	src, err := p.evidence.Open(ctx, payload.SavedName)
	if err != nil {
		if errors.Is(err, evidence.ErrNotFound) {
			return fmt.Errorf("evidence %s: %w", payload.SavedName, asynq.SkipRetry)
		}
		return err
	}
	defer src.Close()

	text, err := pdfutil.ExtractFromReader(src, p.maxBytes)
	if err != nil {
		slog.Warn("evidence text extraction failed", "report_id", payload.ReportID, "file", payload.SavedName, "error", err)
		return fmt.Errorf("extract %s: %w: %w", payload.SavedName, err, asynq.SkipRetry)
	}

	data := []byte(text)
	name := payload.SavedName + TextSuffix
	if err := p.evidence.Put(ctx, name, bytes.NewReader(data), int64(len(data)), "text/plain; charset=utf-8"); err != nil {
		return err
	}
	slog.Info("evidence text extracted", "report_id", payload.ReportID, "file", payload.SavedName, "bytes", len(data))
	return nil
}
