package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/config"
)

func TestProducerSurfacesAsyncErrors(t *testing.T) {
	fake := newFakeAsyncProducer()
	p := &Producer{
		producer: fake,
		logger:   zaptest.NewLogger(t),
		cfg:      config.KafkaSettings{TopicPrefix: "herd"},
		errChan:  make(chan error, 1),
		done:     make(chan struct{}),
	}
	go p.handleErrors()

	brokerErr := errors.New("broker unavailable")
	fake.errors <- &sarama.ProducerError{
		Err: brokerErr,
		Msg: &sarama.ProducerMessage{Topic: "herd.user.registered"},
	}

	select {
	case err := <-p.Errors():
		if !errors.Is(err, brokerErr) {
			t.Fatalf("unexpected error surfaced: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for producer error")
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestProducerCloseStopsErrorMonitor(t *testing.T) {
	fake := newFakeAsyncProducer()
	p := &Producer{
		producer: fake,
		logger:   zaptest.NewLogger(t),
		cfg:      config.KafkaSettings{TopicPrefix: "herd"},
		errChan:  make(chan error, 1),
		done:     make(chan struct{}),
	}

	monitorStopped := make(chan struct{})
	go func() {
		p.handleErrors()
		close(monitorStopped)
	}()

	if err := p.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if !fake.closed {
		t.Fatal("expected underlying async producer to be closed")
	}

	select {
	case <-monitorStopped:
	case <-time.After(time.Second):
		t.Fatal("error monitor goroutine did not stop after Close")
	}

	if _, open := <-p.Errors(); open {
		t.Fatal("expected error channel to be closed")
	}
}

func TestProducerTopicName(t *testing.T) {
	p := &Producer{cfg: config.KafkaSettings{TopicPrefix: "herd"}}

	if got := p.TopicName("user.registered"); got != "herd.user.registered" {
		t.Fatalf("unexpected topic: %s", got)
	}
	if got := p.TopicName("herd.user.registered"); got != "herd.user.registered" {
		t.Fatalf("expected prefixed name untouched, got %s", got)
	}

	unprefixed := &Producer{cfg: config.KafkaSettings{}}
	if got := unprefixed.TopicName("user.logged_in"); got != "user.logged_in" {
		t.Fatalf("unexpected topic: %s", got)
	}
}
