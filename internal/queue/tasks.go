package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
)

const (
	// NotifyReportTask tells admins about a new submission.
	NotifyReportTask = "report:notify"
	// ExtractEvidenceTask extracts searchable text from a PDF attachment.
	ExtractEvidenceTask = "evidence:extract"
)

type NotifyPayload struct {
	ReportID string `json:"report_id"`
}

type ExtractPayload struct {
	ReportID  string `json:"report_id"`
	SavedName string `json:"saved_name"`
}

// Dispatcher hands follow-up work for a stored report to the background.
type Dispatcher interface {
	ReportSubmitted(ctx context.Context, report *models.Report) error
}

// NoopDispatcher is used when no queue is configured.
type NoopDispatcher struct{}

func (NoopDispatcher) ReportSubmitted(_ context.Context, report *models.Report) error {
	slog.Debug("background jobs disabled", "report_id", report.ID)
	return nil
}

type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{client: client}
}

func (d *AsynqDispatcher) ReportSubmitted(ctx context.Context, report *models.Report) error {
	if err := enqueue(ctx, d.client, NotifyReportTask, NotifyPayload{ReportID: report.ID}); err != nil {
		return err
	}
	for _, f := range report.Files {
		if !f.IsPDF() {
			continue
		}
		payload := ExtractPayload{ReportID: report.ID, SavedName: f.SavedName}
		if err := enqueue(ctx, d.client, ExtractEvidenceTask, payload); err != nil {
			return err
		}
	}
	return nil
}

func enqueue(ctx context.Context, client *asynq.Client, taskType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s task: %w", taskType, err)
	}
	return nil
}
