package eventlist

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/filters"
	"github.com/yildizm/careminder/internal/notify"
)

// fakeLister serves a fixed number of events and records every query
type fakeLister struct {
	total     int
	omitTotal bool
	err       error
	queries   []api.EventsQuery
}

func (f *fakeLister) List(_ context.Context, q api.EventsQuery) (*api.EventsPage, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if end > f.total {
		end = f.total
	}
	page := &api.EventsPage{Events: []api.Event{}}
	for i := start; i < end; i++ {
		page.Events = append(page.Events, api.Event{Description: fmt.Sprintf("event %d", i)})
	}
	if !f.omitTotal {
		total := f.total
		page.Total = &total
	}
	return page, nil
}

type recorder struct {
	got []notify.Notification
}

func (r *recorder) Publish(message string, severity ...notify.Severity) {
	n := notify.Notification{Message: message, Severity: notify.Success}
	if len(severity) > 0 {
		n.Severity = severity[0]
	}
	r.got = append(r.got, n)
}

func syncAndFetch(t *testing.T, c *Controller, l Lister, f filters.State, key int) {
	t.Helper()
	req, ok := c.Sync(f, key)
	if !ok {
		t.Fatalf("Expected a request for %+v", f)
	}
	if !c.Resolve(Fetch(context.Background(), l, req)) {
		t.Fatalf("Expected result for generation %d to apply", req.Generation)
	}
}

func TestEstimateTotal(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name     string
		prev     int
		appended bool
		items    int
		server   *int
		want     int
	}{
		{name: "server total wins", prev: 10, appended: true, items: 30, server: intp(42), want: 42},
		{name: "server zero", prev: 10, appended: false, items: 0, server: intp(0), want: 0},
		{name: "replace uses held count", prev: 99, appended: false, items: 7, want: 7},
		{name: "append grows", prev: 15, appended: true, items: 30, want: 30},
		{name: "append never shrinks", prev: 50, appended: true, items: 30, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTotal(tt.prev, tt.appended, tt.items, tt.server); got != tt.want {
				t.Errorf("EstimateTotal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPagingThroughFortyTwo(t *testing.T) {
	lister := &fakeLister{total: 42}
	c := New(nil, nil)
	f := filters.Default(15)

	syncAndFetch(t, c, lister, f, 0)
	if len(c.Items()) != 15 || !c.HasMore() {
		t.Fatalf("Expected 15 items with more, got %d hasMore=%v", len(c.Items()), c.HasMore())
	}

	for i := 0; i < 2; i++ {
		next, ok := c.LoadMore(f, false)
		if !ok {
			t.Fatalf("Expected load more to advance on round %d", i)
		}
		f = next
		syncAndFetch(t, c, lister, f, 0)
	}

	if f.Page != 3 || len(c.Items()) != 42 {
		t.Fatalf("Expected 42 items on page 3, got %d on page %d", len(c.Items()), f.Page)
	}
	if c.HasMore() {
		t.Error("Expected no more items")
	}

	if _, ok := c.LoadMore(f, false); ok {
		t.Error("Expected load more to be a no-op once everything is loaded")
	}
	if len(lister.queries) != 3 {
		t.Errorf("Expected 3 requests, got %d", len(lister.queries))
	}
	if c.Summary() != "Showing 42 of 42 reminders" {
		t.Errorf("Unexpected summary %q", c.Summary())
	}
}

func TestLoadMoreGuards(t *testing.T) {
	lister := &fakeLister{total: 42}
	c := New(nil, nil)
	f := filters.Default(15)

	if _, ok := c.LoadMore(f, false); ok {
		t.Error("Expected no load more before anything is loaded")
	}

	syncAndFetch(t, c, lister, f, 0)

	if _, ok := c.LoadMore(f, true); ok {
		t.Error("Expected busy to block load more")
	}

	next, _ := c.LoadMore(f, false)
	if _, ok := c.Sync(next, 0); !ok {
		t.Fatal("Expected page 2 request")
	}
	if c.Phase() != LoadingMore {
		t.Errorf("Expected loading more, got %s", c.Phase())
	}
	if _, ok := c.LoadMore(next, false); ok {
		t.Error("Expected load more to be blocked while loading")
	}
}

func TestFilterChangeResetsList(t *testing.T) {
	lister := &fakeLister{total: 42}
	c := New(nil, nil)
	f := filters.Default(15)

	syncAndFetch(t, c, lister, f, 0)
	f, _ = c.LoadMore(f, false)
	syncAndFetch(t, c, lister, f, 0)
	f, _ = c.LoadMore(f, false)
	syncAndFetch(t, c, lister, f, 0)

	changed := f.ToggleEventType("vaccine")
	if changed.Page != 1 {
		t.Fatalf("Expected category toggle to reset page, got %d", changed.Page)
	}

	req, ok := c.Sync(changed, 0)
	if !ok {
		t.Fatal("Expected filter change to request")
	}
	if req.Append {
		t.Error("Expected replace, not append")
	}
	if len(c.Items()) != 0 || c.Phase() != LoadingInitial {
		t.Errorf("Expected cleared items in initial load, got %d items phase %s", len(c.Items()), c.Phase())
	}
	if last := lister.queries[len(lister.queries)-1]; last.Page != 3 {
		t.Fatalf("Sanity: expected last query on page 3, got %d", last.Page)
	}

	c.Resolve(Fetch(context.Background(), lister, req))
	if lister.queries[len(lister.queries)-1].Page != 1 {
		t.Error("Expected refetch from page 1")
	}
}

func TestNoRequestWithoutChange(t *testing.T) {
	c := New(nil, nil)
	f := filters.Default(15)

	if _, ok := c.Sync(f, 0); !ok {
		t.Fatal("Expected first sync to request")
	}
	if _, ok := c.Sync(filters.Default(15), 0); ok {
		t.Error("Expected equal filters not to request again")
	}
	if _, ok := c.Sync(f, 1); !ok {
		t.Error("Expected refresh key bump to request")
	}
}

func TestStalePageDropped(t *testing.T) {
	lister := &fakeLister{total: 42}
	c := New(nil, nil)
	f := filters.Default(15)
	syncAndFetch(t, c, lister, f, 0)

	page2, _ := c.LoadMore(f, false)
	oldReq, _ := c.Sync(page2, 0)

	newer := f.SetDateRange("2024-01-01", "")
	newReq, _ := c.Sync(newer, 0)

	newResult := Fetch(context.Background(), lister, newReq)
	oldResult := Fetch(context.Background(), lister, oldReq)

	if !c.Resolve(newResult) {
		t.Fatal("Expected newer page 1 to apply")
	}
	if c.Resolve(oldResult) {
		t.Error("Expected stale page 2 to be dropped")
	}
	if len(c.Items()) != 15 {
		t.Errorf("Expected 15 items from the newer request, got %d", len(c.Items()))
	}
}

func TestFailureKeepsItems(t *testing.T) {
	lister := &fakeLister{total: 42}
	rec := &recorder{}
	c := New(rec, nil)
	f := filters.Default(15)
	syncAndFetch(t, c, lister, f, 0)

	lister.err = &api.Error{Kind: api.KindServer, StatusCode: 500, Message: "Unexpected error. Please try again later."}
	next, _ := c.LoadMore(f, false)
	req, _ := c.Sync(next, 0)
	if !c.Resolve(Fetch(context.Background(), lister, req)) {
		t.Fatal("Expected current failure to be handled")
	}

	if len(c.Items()) != 15 {
		t.Errorf("Expected items kept after failure, got %d", len(c.Items()))
	}
	if c.Phase() != Idle {
		t.Errorf("Expected idle after failure, got %s", c.Phase())
	}
	if len(rec.got) != 1 || rec.got[0].Severity != notify.Error || rec.got[0].Message != "Unexpected error. Please try again later." {
		t.Errorf("Unexpected notifications %+v", rec.got)
	}
}

func TestStaleFailureIgnored(t *testing.T) {
	rec := &recorder{}
	c := New(rec, nil)
	req, _ := c.Sync(filters.Default(15), 0)
	c.Sync(filters.Default(15).ToggleEventType("x"), 0)

	if c.Fail(req.Generation, errors.New("late")) {
		t.Error("Expected stale failure to be ignored")
	}
	if len(rec.got) != 0 {
		t.Errorf("Expected no notification, got %+v", rec.got)
	}
}

func TestCloseMarksInFlightStale(t *testing.T) {
	lister := &fakeLister{total: 5}
	c := New(nil, nil)
	req, _ := c.Sync(filters.Default(15), 0)
	c.Close()

	if c.Resolve(Fetch(context.Background(), lister, req)) {
		t.Error("Expected result after close to be dropped")
	}
	if _, ok := c.Sync(filters.Default(15).NextPage(), 0); ok {
		t.Error("Expected closed controller to ignore syncs")
	}
}

func TestMissingServerTotal(t *testing.T) {
	lister := &fakeLister{total: 20, omitTotal: true}
	c := New(nil, nil)
	f := filters.Default(15)
	syncAndFetch(t, c, lister, f, 0)

	if c.Total() != 15 {
		t.Errorf("Expected estimated total 15, got %d", c.Total())
	}
	if c.HasMore() {
		t.Error("Expected no more without a server total")
	}
	if c.Summary() != "Showing 15 of 15 reminders" {
		t.Errorf("Unexpected summary %q", c.Summary())
	}
}
