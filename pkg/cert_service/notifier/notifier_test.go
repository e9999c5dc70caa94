package notifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/notifier"
	mock_storage "github.com/certlane/certlane/test/mock/cert_service/storage"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type NotifierTestSuite struct {
	suite.Suite

	ctrl   *gomock.Controller
	outbox *mock_storage.MockAuditStorage
	tx     *mock_storage.MockTx
}

func TestNotifierTestSuite(t *testing.T) {
	suite.Run(t, new(NotifierTestSuite))
}

func (s *NotifierTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.outbox = mock_storage.NewMockAuditStorage(s.ctrl)
	s.tx = mock_storage.NewMockTx(s.ctrl)
}

func (s *NotifierTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *NotifierTestSuite) TestDeliverUnpublishedEvents() {
	events := []model.AuditEvent{
		{ID: "event-1", Ts: 1711953471, Requester: "mark", Operation: "issue", CertificateName: "app01.example.com", Outcome: model.AuditOutcomeOK},
		{ID: "event-2", Ts: 1711953500, Requester: "mark", Operation: "renew", CertificateName: "app01.example.com", Outcome: model.AuditOutcomeError},
	}

	received := make([]model.AuditEvent, 0, len(events))
	receivedLock := sync.Mutex{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event := model.AuditEvent{}
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&event))
		s.Assert().Equal(event.ID, r.Header.Get("X-Event-Id"))
		receivedLock.Lock()
		received = append(received, event)
		receivedLock.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx := context.Background()
	drained := make(chan struct{})

	s.outbox.EXPECT().CreateTx(gomock.Any(), gomock.Len(1)).Return(s.tx, ctx, nil).AnyTimes()
	s.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	gomock.InOrder(
		s.outbox.EXPECT().GetUnpublishedAuditEvents(gomock.Any(), s.tx, 10).Return(events, nil),
		s.outbox.EXPECT().MarkAuditEventsPublished(gomock.Any(), s.tx, []string{"event-1", "event-2"}).Return(nil),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.outbox.EXPECT().GetUnpublishedAuditEvents(gomock.Any(), s.tx, 10).DoAndReturn(
			func(ctx context.Context, tx interface{}, batchSize int) ([]model.AuditEvent, error) {
				close(drained)
				return nil, nil
			},
		),
	)
	s.outbox.EXPECT().GetUnpublishedAuditEvents(gomock.Any(), s.tx, 10).Return(nil, nil).AnyTimes()

	n := notifier.NewNotifier(
		notifier.NotifierWithOutboxStorage(s.outbox),
		notifier.NotifierWithWebhookURL(server.URL),
		notifier.NotifierWithInterval(50*time.Millisecond),
	)
	n.Start()

	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		s.FailNow("notifier did not drain the outbox in time")
	}
	n.Stop()

	receivedLock.Lock()
	defer receivedLock.Unlock()
	s.Require().Len(received, 2)
	s.Assert().Equal("event-1", received[0].ID)
	s.Assert().Equal("event-2", received[1].ID)
}

func (s *NotifierTestSuite) TestFailedDeliveryKeepsOutbox() {
	events := []model.AuditEvent{
		{ID: "event-1", Ts: 1711953471, Requester: "mark", Operation: "issue", CertificateName: "app01.example.com", Outcome: model.AuditOutcomeOK},
	}

	attempted := make(chan struct{}, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempted <- struct{}{}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx := context.Background()
	s.outbox.EXPECT().CreateTx(gomock.Any(), gomock.Len(1)).Return(s.tx, ctx, nil).AnyTimes()
	s.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	s.outbox.EXPECT().GetUnpublishedAuditEvents(gomock.Any(), s.tx, 10).Return(events, nil).AnyTimes()

	n := notifier.NewNotifier(
		notifier.NotifierWithOutboxStorage(s.outbox),
		notifier.NotifierWithWebhookURL(server.URL),
		notifier.NotifierWithInterval(50*time.Millisecond),
		notifier.NotifierWithRetryAttempts(1),
	)
	n.Start()

	select {
	case <-attempted:
	case <-time.After(5 * time.Second):
		s.FailNow("notifier never attempted delivery")
	}
	n.Stop()
}
