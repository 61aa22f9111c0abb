package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// AlertSender отправляет оперативные уведомления оператору контроллера
type AlertSender interface {
	SendPingFailedAlert(ctx context.Context, deviceID, pingID, reason string) error
}

// NoopAlertSender используется, когда почтовые уведомления не настроены
type NoopAlertSender struct{}

func (s *NoopAlertSender) SendPingFailedAlert(ctx context.Context, deviceID, pingID, reason string) error {
	log.Printf("[EmailService] noop alert: device=%s ping=%s reason=%s", deviceID, pingID, reason)
	return nil
}

// ResendAlertSender отправляет письма-уведомления через Resend REST API
type ResendAlertSender struct {
	from   string
	to     string
	client *resend.Client
}

func NewResendAlertSender(apiKey, from, to string) (*ResendAlertSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("alert from/to addresses are required")
	}
	return &ResendAlertSender{
		from:   from,
		to:     to,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendAlertSender) SendPingFailedAlert(ctx context.Context, deviceID, pingID, reason string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: fmt.Sprintf("Rickshaw device %s failed to answer a ping", deviceID),
		Text: fmt.Sprintf(
			"Device %s reported a failure for ping request %s.\nReason: %s\nThe device may be offline or missing location permissions.",
			deviceID, pingID, reason,
		),
		Html: fmt.Sprintf(
			"<p>Device <strong>%s</strong> reported a failure for ping request <code>%s</code>.</p><p>Reason: %s</p>",
			deviceID, pingID, reason,
		),
	}

	options := &resend.SendEmailOptions{IdempotencyKey: "ping-failed-" + pingID}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
