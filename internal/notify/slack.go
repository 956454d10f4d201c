package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sujikathir/gdev/pkg/types"
)

// SlackNotifier posts task outcomes to a Slack incoming webhook. With no
// webhook URL configured it is a no-op.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

func NewSlackNotifier(webhookURL string, logger *zap.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// TaskFinished posts a summary of a finished auto-fix task. Delivery
// failures are logged, never propagated.
func (n *SlackNotifier) TaskFinished(ctx context.Context, task types.AutoFixTask) {
	if n.webhookURL == "" {
		return
	}
	if err := n.post(ctx, formatTask(task)); err != nil {
		n.logger.Warn("failed to deliver Slack notification",
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
	}
}

func (n *SlackNotifier) post(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func formatTask(task types.AutoFixTask) string {
	switch task.Status {
	case types.StatusCompleted:
		return fmt.Sprintf(":white_check_mark: Auto-fix for issue #%d in %s completed: %s",
			task.IssueNumber, task.Repository, task.PRURL)
	case types.StatusPartialSuccess:
		return fmt.Sprintf(":warning: Auto-fix for issue #%d in %s pushed branch %s but could not open a PR: %s",
			task.IssueNumber, task.Repository, task.BranchName, task.Error)
	default:
		return fmt.Sprintf(":x: Auto-fix for issue #%d in %s failed: %s",
			task.IssueNumber, task.Repository, task.Error)
	}
}
