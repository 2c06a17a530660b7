package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/internal/models"
)

const maxResponseBytes = 1 << 20

// RemoteError is returned when the notifier answers with a non-success outcome.
type RemoteError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notifier returned %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notifier returned %d: %s", e.Status, e.Message)
}

// HTTPNotifier posts registrations to the notifier endpoint.
type HTTPNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPNotifier builds a notifier client. A zero timeout leaves requests unbounded.
func NewHTTPNotifier(url string, timeout time.Duration, logger *zap.Logger) *HTTPNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type notifierEnvelope struct {
	Data *struct {
		Success bool `json:"success"`
	} `json:"data"`
	Success *bool `json:"success"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// Notify sends the registration and interprets the response envelope.
func (n *HTTPNotifier) Notify(ctx context.Context, notification models.RegistrationNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("call notifier: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read notifier response: %w", err)
	}
	n.logger.Debug("notifier responded", zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	var envelope notifierEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= 300 {
			return &RemoteError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode notifier response: %w", err)
	}

	if resp.StatusCode >= 300 || envelope.Error != nil {
		remote := &RemoteError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if envelope.Error != nil {
			remote.Code = envelope.Error.Code
			remote.Message = envelope.Error.Message
			remote.Details = envelope.Error.Details
		}
		return remote
	}

	if (envelope.Data != nil && envelope.Data.Success) || (envelope.Success != nil && *envelope.Success) {
		return nil
	}
	return fmt.Errorf("notifier response did not acknowledge success")
}
