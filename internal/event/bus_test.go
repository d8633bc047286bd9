package event

import (
	"errors"
	"testing"
)

type testEvent struct {
	topic Topic
	value string
}

func (e testEvent) EventTopic() Topic { return e.topic }

func TestBus_PublishDeliversToMatching(t *testing.T) {
	bus := NewBus()

	var got []string
	_, err := bus.SubscribeFunc("buffer.*", func(ev any) error {
		got = append(got, ev.(testEvent).value)
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc failed: %v", err)
	}

	if err := bus.Publish(testEvent{"buffer.created", "a"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := bus.Publish(testEvent{"tabs.switched", "b"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(got) != 1 || got[0] != "a" {
		t.Errorf("delivered = %v, want [a]", got)
	}
}

func TestBus_DeliveryOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		bus.SubscribeFunc("x.y", func(any) error {
			order = append(order, i)
			return nil
		})
	}

	bus.Publish(testEvent{topic: "x.y"})

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("delivery order = %v, want [0 1 2]", order)
	}
}

func TestBus_HandlerErrorAbortsDelivery(t *testing.T) {
	bus := NewBus()

	wantErr := errors.New("boom")
	called := false

	bus.SubscribeFunc("x.y", func(any) error { return wantErr })
	bus.SubscribeFunc("x.y", func(any) error { called = true; return nil })

	err := bus.Publish(testEvent{topic: "x.y"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Publish error = %v, want wrapped %v", err, wantErr)
	}
	if called {
		t.Error("second handler should not run after error")
	}
}

func TestBus_PanicRecovered(t *testing.T) {
	var recovered any
	bus := NewBus(WithPanicHandler(func(_ any, r any) { recovered = r }))

	called := false
	bus.SubscribeFunc("x.y", func(any) error { panic("oops") })
	bus.SubscribeFunc("x.y", func(any) error { called = true; return nil })

	if err := bus.Publish(testEvent{topic: "x.y"}); err != nil {
		t.Fatalf("Publish returned error after panic: %v", err)
	}
	if recovered != "oops" {
		t.Errorf("panic handler got %v, want oops", recovered)
	}
	if !called {
		t.Error("delivery should continue past a panicking handler")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	sub, _ := bus.SubscribeFunc("x.y", func(any) error { count++; return nil })

	bus.Publish(testEvent{topic: "x.y"})

	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	bus.Publish(testEvent{topic: "x.y"})

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}

	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("double Unsubscribe = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestBus_RejectsBadSubscriptions(t *testing.T) {
	bus := NewBus()

	if _, err := bus.SubscribeFunc("x.y", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler error = %v, want ErrNilHandler", err)
	}
	if _, err := bus.SubscribeFunc("", func(any) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
}

type topiclessEvent struct{}

func TestBus_RejectsEventWithoutTopic(t *testing.T) {
	bus := NewBus()

	if err := bus.Publish(topiclessEvent{}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Publish error = %v, want ErrInvalidEvent", err)
	}
}
