package notify

import (
	"slices"
	"sync/atomic"
	"testing"
)

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeReset, "reset"},
		{ChangeReload, "reload"},
		{ChangeType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()

	var received atomic.Bool
	n.Subscribe(func(change Change) {
		received.Store(true)
	})

	n.NotifySet("python", nil, 2, "test")

	// Delivery is synchronous.
	if !received.Load() {
		t.Error("observer did not receive notification")
	}
}

func TestNotifier_SubscribeKey(t *testing.T) {
	n := New()

	var python, c atomic.Int32
	n.SubscribeKey("python", func(Change) { python.Add(1) })
	n.SubscribeKey("c", func(Change) { c.Add(1) })

	n.NotifySet("python", nil, nil, "test")

	if python.Load() != 1 {
		t.Errorf("python observer called %d times, want 1", python.Load())
	}
	if c.Load() != 0 {
		t.Errorf("c observer called %d times, want 0", c.Load())
	}

	n.NotifyReload("test")

	if python.Load() != 2 || c.Load() != 1 {
		t.Errorf("reload not delivered to key observers: python=%d c=%d", python.Load(), c.Load())
	}
}

func TestSubscription_Unsubscribe(t *testing.T) {
	n := New()

	var count atomic.Int32
	sub := n.Subscribe(func(Change) { count.Add(1) })
	keySub := n.SubscribeKey("go", func(Change) { count.Add(1) })
	n.NotifySet("go", nil, nil, "test")
	if count.Load() != 2 {
		t.Fatalf("observers called %d times, want 2", count.Load())
	}

	sub.Unsubscribe()
	keySub.Unsubscribe()
	n.NotifySet("go", nil, nil, "test")
	n.NotifyReload("test")

	if count.Load() != 2 {
		t.Errorf("unsubscribed observers were called %d more times", count.Load()-2)
	}

	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestNotifier_SubscriptionOrder(t *testing.T) {
	n := New()

	var got []string
	record := func(name string) Observer {
		return func(Change) { got = append(got, name) }
	}
	n.Subscribe(record("first"))
	middle := n.SubscribeKey("c", record("second"))
	n.Subscribe(record("third"))
	n.SubscribeKey("c", record("fourth"))

	n.NotifySet("c", nil, nil, "test")
	want := []string{"first", "second", "third", "fourth"}
	if !slices.Equal(got, want) {
		t.Fatalf("delivery order = %v, want %v", got, want)
	}

	middle.Unsubscribe()
	n.Subscribe(record("fifth"))
	got = nil
	n.NotifyReload("test")
	want = []string{"first", "third", "fourth", "fifth"}
	if !slices.Equal(got, want) {
		t.Errorf("delivery order after unsubscribe = %v, want %v", got, want)
	}
}

func TestNotifier_ChangeFields(t *testing.T) {
	n := New()

	var got Change
	n.Subscribe(func(c Change) { got = c })

	n.NotifyReset("rust", 8, 4, "dialog")

	if got.Key != "rust" || got.Type != ChangeReset || got.OldValue != 8 || got.NewValue != 4 || got.Source != "dialog" {
		t.Errorf("unexpected change %+v", got)
	}
}
