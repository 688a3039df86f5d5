package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/segmentio/kafka-go"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// fakeWriter — подмена kafka.Writer: запоминает сообщения, умеет падать.
type fakeWriter struct {
	msgs       []kafka.Message
	writeErr   error
	closeCalls int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closeCalls++
	return nil
}

func testEvent() domain.StatusChangeEvent {
	return domain.StatusChangeEvent{
		OrderID:    "order-1",
		OldStatus:  domain.StatusPending,
		NewStatus:  domain.StatusConfirmed,
		OccurredAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProducer_PublishStatusChange(t *testing.T) {
	fw := &fakeWriter{}
	p := &Producer{writer: fw, topic: "orders.status", log: nopLogger{}}

	if err := p.PublishStatusChange(context.Background(), testEvent()); err != nil {
		t.Fatalf("PublishStatusChange: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("messages written = %d, want 1", len(fw.msgs))
	}

	msg := fw.msgs[0]
	if string(msg.Key) != "order-1" {
		t.Fatalf("message key = %q, want order_id", msg.Key)
	}

	var got domain.StatusChangeEvent
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.OldStatus != domain.StatusPending || got.NewStatus != domain.StatusConfirmed {
		t.Fatalf("statuses lost in payload: %+v", got)
	}
}

func TestProducer_PublishStatusChange_WriteError(t *testing.T) {
	wantErr := errors.New("broker unavailable")
	p := &Producer{writer: &fakeWriter{writeErr: wantErr}, topic: "orders.status", log: nopLogger{}}

	err := p.PublishStatusChange(context.Background(), testEvent())
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped writer error", err)
	}
}

func TestProducer_CloseIsIdempotent(t *testing.T) {
	fw := &fakeWriter{}
	p := &Producer{writer: fw, topic: "orders.status", log: nopLogger{}}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if fw.closeCalls != 1 {
		t.Fatalf("writer closed %d times, want 1", fw.closeCalls)
	}
}
