package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
	closed bool
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error {
	f.closed = true
	return nil
}

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
			TopicPrefix: "herd",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "bovino-api",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishUserRegistered(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	registeredAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	event := domain.UserRegisteredEvent{
		EventID:      "event-123",
		UserID:       "user-456",
		Email:        "rancher@example.com",
		RoleID:       2,
		RegisteredAt: registeredAt,
	}

	if err := publisher.PublishUserRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishUserRegistered returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "herd.user.registered" {
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

		if got := envelope["version"]; got != "1.0" {
			t.Fatalf("unexpected version: %v", got)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["email"]; got != event.Email {
			t.Fatalf("unexpected email: %v", got)
		}

		roleID, ok := payload["role_id"].(float64)
		if !ok {
			t.Fatalf("role_id not numeric: %T", payload["role_id"])
		}
		if int(roleID) != event.RoleID {
			t.Fatalf("unexpected role_id: %v", roleID)
		}

		registeredAtValue, ok := payload["registered_at"].(string)
		if !ok {
			t.Fatalf("registered_at not a string: %T", payload["registered_at"])
		}
		if registeredAtValue != registeredAt.Format(time.RFC3339Nano) {
			t.Fatalf("unexpected registered_at: %s", registeredAtValue)
		}

		metadata, ok := envelope["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("envelope metadata not a map: %T", envelope["metadata"])
		}

		if metadata["service"] != "bovino-api" {
			t.Fatalf("unexpected metadata service: %v", metadata["service"])
		}

		if metadata["environment"] != "test" {
			t.Fatalf("unexpected metadata environment: %v", metadata["environment"])
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}

func TestPublishUserLoggedIn(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	loggedInAt := time.Date(2026, 3, 15, 18, 45, 0, 0, time.UTC)
	event := domain.UserLoggedInEvent{
		EventID:    "event-789",
		UserID:     "user-456",
		Email:      "rancher@example.com",
		Role:       "rancher",
		IP:         "203.0.113.10",
		LoggedInAt: loggedInAt,
	}

	if err := publisher.PublishUserLoggedIn(context.Background(), event); err != nil {
		t.Fatalf("PublishUserLoggedIn returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "herd.user.logged_in" {
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

		if got := envelope["event_type"]; got != "user.logged_in" {
			t.Fatalf("unexpected event_type: %v", got)
		}

		timestamp, ok := envelope["timestamp"].(string)
		if !ok {
			t.Fatalf("timestamp not a string: %T", envelope["timestamp"])
		}
		if timestamp != loggedInAt.Format(time.RFC3339Nano) {
			t.Fatalf("unexpected timestamp: %s", timestamp)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["role"]; got != event.Role {
			t.Fatalf("unexpected role: %v", got)
		}

		if got := payload["ip"]; got != event.IP {
			t.Fatalf("unexpected ip: %v", got)
		}

		if got := payload["user_id"]; got != event.UserID {
			t.Fatalf("unexpected payload.user_id: %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}
