package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T, asyncProducer sarama.AsyncProducer) *EventPublisher {
	t.Helper()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "library",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "university-library",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishUserRegistered(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	registeredAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	event := domain.UserRegisteredEvent{
		EventID:      "event-123",
		UserID:       "user-789",
		FullName:     "Jordan Reyes",
		Email:        "jordan@university.edu",
		UniversityID: 20231504,
		Status:       "PENDING",
		RegisteredAt: registeredAt,
	}

	if err := publisher.PublishUserRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishUserRegistered returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "library.user.registered" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "user.registered" {
			t.Fatalf("unexpected event_type: %v", got)
		}

		if got := envelope["event_id"]; got != event.EventID {
			t.Fatalf("unexpected event_id: %v", got)
		}

		if got := envelope["user_id"]; got != event.UserID {
			t.Fatalf("unexpected user_id: %v", got)
		}

		timestamp, ok := envelope["timestamp"].(string)
		if !ok {
			t.Fatalf("timestamp not a string: %T", envelope["timestamp"])
		}

		if timestamp != registeredAt.Format(time.RFC3339Nano) {
			t.Fatalf("unexpected timestamp: %s", timestamp)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["full_name"]; got != event.FullName {
			t.Fatalf("unexpected full_name: %v", got)
		}

		if got := payload["email"]; got != event.Email {
			t.Fatalf("unexpected email: %v", got)
		}

		if got := payload["status"]; got != event.Status {
			t.Fatalf("unexpected status: %v", got)
		}

		universityID, ok := payload["university_id"].(float64)
		if !ok {
			t.Fatalf("university_id not numeric: %T", payload["university_id"])
		}
		if int64(universityID) != event.UniversityID {
			t.Fatalf("unexpected university_id: %v", universityID)
		}

		envelopeMetadata, ok := envelope["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("envelope metadata not a map: %T", envelope["metadata"])
		}

		if envelopeMetadata["service"] != "university-library" {
			t.Fatalf("unexpected metadata service: %v", envelopeMetadata["service"])
		}

		if envelopeMetadata["environment"] != "test" {
			t.Fatalf("unexpected metadata environment: %v", envelopeMetadata["environment"])
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}

func TestPublishAccountStatusChanged(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	changedAt := time.Date(2025, 3, 15, 16, 45, 0, 0, time.UTC)
	event := domain.AccountStatusChangedEvent{
		EventID:        "evt-001",
		UserID:         "user-789",
		PreviousStatus: "PENDING",
		NewStatus:      "APPROVED",
		ChangedBy:      "admin-456",
		ChangedAt:      changedAt,
	}

	if err := publisher.PublishAccountStatusChanged(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountStatusChanged returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "library.account.status_changed" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["previous_status"]; got != event.PreviousStatus {
			t.Fatalf("unexpected previous_status: %v", got)
		}

		if got := payload["new_status"]; got != event.NewStatus {
			t.Fatalf("unexpected new_status: %v", got)
		}

		if got := payload["changed_by"]; got != event.ChangedBy {
			t.Fatalf("unexpected changed_by: %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}

func TestTopicNameKeepsExistingPrefix(t *testing.T) {
	producer := &Producer{cfg: config.KafkaSettings{TopicPrefix: "library"}}

	if got := producer.TopicName("library.book.borrowed"); got != "library.book.borrowed" {
		t.Fatalf("unexpected topic: %s", got)
	}

	if got := producer.TopicName("book.borrowed"); got != "library.book.borrowed" {
		t.Fatalf("unexpected topic: %s", got)
	}
}
