package notify

import (
	"sync"
	"testing"
)

func TestPublishDefaultsToSuccess(t *testing.T) {
	c := New()
	var got []Notification
	c.Subscribe(func(n Notification) { got = append(got, n) })

	c.Publish("Patient file uploaded successfully")
	c.Publish("boom", Error)

	if len(got) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(got))
	}
	if got[0].Severity != Success {
		t.Errorf("Expected default severity success, got %s", got[0].Severity)
	}
	if got[1].Severity != Error || got[1].Message != "boom" {
		t.Errorf("Unexpected notification: %+v", got[1])
	}
}

func TestPublishWithoutSubscriber(t *testing.T) {
	c := New()
	c.Publish("nobody listening", Warning)

	// Dropped messages are not replayed to a later subscriber
	calls := 0
	c.Subscribe(func(Notification) { calls++ })
	if calls != 0 {
		t.Errorf("Expected dropped message to stay dropped, got %d deliveries", calls)
	}
}

func TestLaterSubscriberReplacesFormer(t *testing.T) {
	c := New()
	var first, second int
	subFirst := c.Subscribe(func(Notification) { first++ })
	c.Subscribe(func(Notification) { second++ })

	c.Publish("hello")
	if first != 0 || second != 1 {
		t.Errorf("Expected only the latest subscriber to receive, got first=%d second=%d", first, second)
	}

	// A stale owner cannot clear the slot
	c.Unsubscribe(subFirst)
	c.Publish("again")
	if second != 2 {
		t.Errorf("Expected latest subscriber to survive stale unsubscribe, got %d", second)
	}
}

func TestUnsubscribeByOwner(t *testing.T) {
	c := New()
	calls := 0
	sub := c.Subscribe(func(Notification) { calls++ })
	c.Unsubscribe(sub)
	c.Publish("dropped")

	if calls != 0 {
		t.Errorf("Expected no delivery after unsubscribe, got %d", calls)
	}
}

func TestConcurrentPublish(t *testing.T) {
	c := New()
	var mu sync.Mutex
	count := 0
	c.Subscribe(func(Notification) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Publish("tick", Info)
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("Expected 50 deliveries, got %d", count)
	}
}
