package pending

import (
	"errors"
	"sync"
	"testing"
)

func TestBeginEnd(t *testing.T) {
	c := New()
	if c.Busy() {
		t.Fatal("Expected new counter to be idle")
	}

	c.Begin(false)
	c.Begin(true)
	if c.Count() != 2 {
		t.Errorf("Expected count 2, got %d", c.Count())
	}
	if !c.OverlayVisible() {
		t.Error("Expected overlay to be visible")
	}

	c.End()
	if !c.OverlayVisible() {
		t.Error("Expected overlay to stay visible while operations remain")
	}

	c.End()
	if c.Busy() || c.OverlayVisible() {
		t.Error("Expected idle counter with hidden overlay")
	}
}

func TestEndNeverNegative(t *testing.T) {
	c := New()
	c.End()
	c.End()
	if c.Count() != 0 {
		t.Errorf("Expected count 0, got %d", c.Count())
	}

	c.Begin(true)
	if c.Count() != 1 {
		t.Errorf("Expected count 1 after extra ends, got %d", c.Count())
	}
}

func TestOverlayOnlyWhenRequested(t *testing.T) {
	c := New()
	c.Begin(false)
	if c.OverlayVisible() {
		t.Error("Expected overlay hidden for operations that did not request it")
	}
	c.End()
}

func TestOverlayResetsAtZero(t *testing.T) {
	c := New()
	c.Begin(true)
	c.End()
	c.Begin(false)
	if c.OverlayVisible() {
		t.Error("Expected overlay request to be cleared once the counter hit zero")
	}
}

func TestTrackEndsOnError(t *testing.T) {
	c := New()
	wantErr := errors.New("upload failed")

	err := c.Track(true, func() error {
		if !c.OverlayVisible() {
			t.Error("Expected overlay during tracked operation")
		}
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Expected %v, got %v", wantErr, err)
	}
	if c.Busy() {
		t.Error("Expected counter to unwind after failure")
	}
}

func TestConcurrentOperations(t *testing.T) {
	c := New()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Begin(i%2 == 0)
			if c.Count() < 1 {
				t.Error("Expected positive count inside an operation")
			}
			c.End()
		}(i)
	}
	wg.Wait()

	if c.Count() != 0 {
		t.Errorf("Expected count 0, got %d", c.Count())
	}
	if c.OverlayVisible() {
		t.Error("Expected overlay hidden at zero")
	}
}
