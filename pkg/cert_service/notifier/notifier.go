// Package notifier drains the audit outbox and delivers lifecycle
// events to a configured webhook endpoint.
package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/storage"
	"github.com/certlane/certlane/pkg/util"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type NotifierOption func(*Notifier)

func NotifierWithBatchSize(batchSize int) NotifierOption {
	return func(n *Notifier) {
		n.batchSize = batchSize
	}
}

func NotifierWithInterval(interval time.Duration) NotifierOption {
	return func(n *Notifier) {
		n.interval = interval
	}
}

func NotifierWithOutboxStorage(outbox storage.AuditStorage) NotifierOption {
	return func(n *Notifier) {
		n.outbox = outbox
	}
}

func NotifierWithWebhookURL(url string) NotifierOption {
	return func(n *Notifier) {
		n.webhookURL = url
	}
}

func NotifierWithRetryAttempts(attempts uint) NotifierOption {
	return func(n *Notifier) {
		n.retryAttempts = attempts
	}
}

type Notifier struct {
	stopChan chan struct{}
	wg       sync.WaitGroup

	batchSize     int
	interval      time.Duration
	timeout       time.Duration
	retryAttempts uint
	webhookURL    string
	outbox        storage.AuditStorage
}

func NewNotifier(options ...NotifierOption) *Notifier {
	n := &Notifier{
		stopChan:      make(chan struct{}),
		batchSize:     10,
		interval:      5 * time.Second,
		timeout:       10 * time.Second,
		retryAttempts: 3,
	}

	for _, opt := range options {
		opt(n)
	}

	return n
}

func (n *Notifier) Start() {
	n.wg.Add(1)
	go n.loop()
}

func (n *Notifier) Stop() {
	close(n.stopChan)
	n.wg.Wait()
}

func (n *Notifier) loop() {
	logrus.Info("Notifier loop started")
	defer n.wg.Done()
	defer logrus.Info("Notifier loop stopped")

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()
	skipTicker := true

	for {
		if skipTicker {
			select {
			case <-n.stopChan:
				return
			default:
				skipTicker = n.worker()
			}
		} else {
			select {
			case <-n.stopChan:
				return
			case <-ticker.C:
				skipTicker = n.worker()
			}
		}
	}
}

func (n *Notifier) worker() bool {
	ctx := context.Background()
	tx, ctx, err := n.outbox.CreateTx(ctx, storage.TxOptionWithWrite(true))
	if err != nil {
		logrus.Errorf("Notifier: Failed to create transaction: %v", err)
		return false
	}
	defer tx.Rollback(ctx)

	events, err := n.outbox.GetUnpublishedAuditEvents(ctx, tx, n.batchSize)
	if err != nil {
		logrus.Errorf("Notifier: Failed to get audit events: %v", err)
		return false
	}
	if len(events) == 0 {
		return false
	}

	for _, event := range events {
		if err := n.postEvent(ctx, event); err != nil {
			logrus.Errorf("Notifier: Failed to deliver event %s: %v", event.ID, err)
			return false
		}
	}

	ids := lo.Map(events, func(event model.AuditEvent, _ int) string { return event.ID })
	if err := n.outbox.MarkAuditEventsPublished(ctx, tx, ids); err != nil {
		logrus.Errorf("Notifier: Failed to mark events published: %v", err)
		return false
	}
	if err := tx.Commit(ctx); err != nil {
		logrus.Errorf("Notifier: Failed to commit transaction: %v", err)
		return false
	}
	return true
}

func (n *Notifier) postEvent(ctx context.Context, event model.AuditEvent) error {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	transport.MaxIdleConnsPerHost = -1
	client := http.Client{Timeout: n.timeout, Transport: transport}

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, util.StructToJSONReader(event))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Event-Id", event.ID)

			resp, err := client.Do(req)
			if err != nil {
				logrus.Debugf("send http request: %v", err)
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				logrus.Debugf("%s returned %v: %s", n.webhookURL, resp.StatusCode, string(body))
				return fmt.Errorf("unexpected status code: %v", resp.StatusCode)
			}

			return nil
		},
		retry.Attempts(n.retryAttempts),
		retry.Context(ctx),
	)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("exceed maximum retries posting audit event %s: %w", event.ID, err)
	}
	return nil
}
