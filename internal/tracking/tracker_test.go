package tracking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/lifecycle"
	"github.com/hunabku/comanda/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func recvUpdate(t *testing.T, ch <-chan Update) Update {
	t.Helper()
	select {
	case update, ok := <-ch:
		if !ok {
			t.Fatal("updates channel closed unexpectedly")
		}
		return update
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	return Update{}
}

func expectClosed(t *testing.T, ch <-chan Update) {
	t.Helper()
	select {
	case update, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel, got %+v", update)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestTrackerEmitsSnapshotFirst(t *testing.T) {
	store := test.NewOrderStoreStub(model.Order{ID: "order-1", Table: "05", Status: model.OrderStatusCooking})

	tracker, err := Track(context.Background(), store, "order-1", lifecycle.LocaleES, time.Hour, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tracker.Close()

	first := recvUpdate(t, tracker.Updates())
	if first.Status != model.OrderStatusCooking {
		t.Fatalf("first frame must carry the current state, got %s", first.Status)
	}
	if len(first.Steps) != 5 {
		t.Fatalf("expected 5 progress steps, got %d", len(first.Steps))
	}
	if !first.Steps[0].Done || !first.Steps[1].Done {
		t.Fatal("earlier stages must render as done")
	}
	if !first.Steps[2].Active || first.Steps[2].Label.Text != "Cocinando" {
		t.Fatalf("cooking stage must be active with localized label, got %+v", first.Steps[2])
	}
	if first.Steps[3].Done || first.Steps[3].Active {
		t.Fatal("future stages must be inactive")
	}
}

func TestTrackerFollowsTransitions(t *testing.T) {
	store := test.NewOrderStoreStub(model.Order{ID: "order-1", Table: "05", Status: model.OrderStatusPending})

	tracker, err := Track(context.Background(), store, "order-1", lifecycle.LocaleEN, time.Hour, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tracker.Close()

	recvUpdate(t, tracker.Updates())

	if err := store.UpdateStatus(context.Background(), "order-1", model.OrderStatusPreparing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := recvUpdate(t, tracker.Updates())
	if next.Status != model.OrderStatusPreparing {
		t.Fatalf("expected preparing frame, got %s", next.Status)
	}
	if next.Steps[1].Label.Text != "Preparing" {
		t.Fatalf("expected english label, got %q", next.Steps[1].Label.Text)
	}
}

func TestTrackerCancelledFrameEndsFeed(t *testing.T) {
	store := test.NewOrderStoreStub(model.Order{ID: "order-1", Table: "05", Status: model.OrderStatusPending})

	tracker, err := Track(context.Background(), store, "order-1", lifecycle.LocaleES, time.Hour, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tracker.Close()

	recvUpdate(t, tracker.Updates())

	if err := store.UpdateStatus(context.Background(), "order-1", model.OrderStatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	final := recvUpdate(t, tracker.Updates())
	if !final.Cancelled {
		t.Fatalf("expected cancelled frame, got %+v", final)
	}
	for _, step := range final.Steps {
		if step.Active {
			t.Fatal("cancelled orders must not show an active stage")
		}
	}
	expectClosed(t, tracker.Updates())
}

func TestTrackerInvoiceEmittedOnce(t *testing.T) {
	store := test.NewOrderStoreStub(model.Order{ID: "order-1", Table: "05", Status: model.OrderStatusReady, Total: 189.00})

	tracker, err := Track(context.Background(), store, "order-1", lifecycle.LocaleES, 20*time.Millisecond, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tracker.Close()

	recvUpdate(t, tracker.Updates())

	if err := store.UpdateStatus(context.Background(), "order-1", model.OrderStatusDelivered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A redundant delivered event must not arm a second invoice.
	store.Broker.Publish(model.OrderEvent{OrderID: "order-1", Table: "05", Status: model.OrderStatusDelivered, UpdatedAt: time.Now()})

	delivered := recvUpdate(t, tracker.Updates())
	if delivered.Status != model.OrderStatusDelivered || delivered.Invoice != nil {
		t.Fatalf("expected plain delivered frame before the invoice, got %+v", delivered)
	}

	invoice := recvUpdate(t, tracker.Updates())
	if invoice.Invoice == nil {
		t.Fatalf("expected invoice frame, got %+v", invoice)
	}
	if invoice.Invoice.Total != 189.00 {
		t.Fatalf("unexpected invoice total %v", invoice.Invoice.Total)
	}
	expectClosed(t, tracker.Updates())
}

func TestTrackerResyncRefetchesState(t *testing.T) {
	store := test.NewOrderStoreStub(model.Order{ID: "order-1", Table: "05", Status: model.OrderStatusReady, Total: 189.00})

	tracker, err := Track(context.Background(), store, "order-1", lifecycle.LocaleES, 20*time.Millisecond, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tracker.Close()

	recvUpdate(t, tracker.Updates())

	// The order finishes while the notification feed is down: the state
	// changes but no event is published. A resync marker must make the
	// tracker re-fetch instead of waiting forever.
	store.Lock()
	store.Orders[0].Status = model.OrderStatusDelivered
	store.Unlock()
	store.Broker.Broadcast(model.OrderEvent{Resync: true})

	delivered := recvUpdate(t, tracker.Updates())
	if delivered.Status != model.OrderStatusDelivered {
		t.Fatalf("expected delivered frame after resync, got %+v", delivered)
	}

	invoice := recvUpdate(t, tracker.Updates())
	if invoice.Invoice == nil || invoice.Invoice.Total != 189.00 {
		t.Fatalf("expected invoice frame after resync, got %+v", invoice)
	}
	expectClosed(t, tracker.Updates())
}

func TestTrackUnknownOrder(t *testing.T) {
	store := test.NewOrderStoreStub()

	if _, err := Track(context.Background(), store, "missing", lifecycle.LocaleES, time.Hour, discardLogger()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStepsUnknownStatusRendersPending(t *testing.T) {
	steps := Steps("weird", lifecycle.LocaleES)
	if len(steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(steps))
	}
	for _, step := range steps {
		if step.Active || step.Done {
			t.Fatalf("unknown status must render nothing as reached, got %+v", step)
		}
	}
}
