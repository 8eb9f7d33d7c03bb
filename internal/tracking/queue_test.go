package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/test"
)

func recvSnapshot(t *testing.T, ch <-chan []model.Order) []model.Order {
	t.Helper()
	select {
	case snapshot, ok := <-ch:
		if !ok {
			t.Fatal("snapshots channel closed unexpectedly")
		}
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestQueueEmitsInitialSnapshot(t *testing.T) {
	store := test.NewOrderStoreStub(
		model.Order{ID: "order-1", Table: "01", Status: model.OrderStatusPending},
		model.Order{ID: "order-2", Table: "02", Status: model.OrderStatusCooking},
	)

	queue, err := Watch(context.Background(), store, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer queue.Close()

	first := recvSnapshot(t, queue.Snapshots())
	if len(first) != 2 {
		t.Fatalf("expected 2 active orders in the initial snapshot, got %d", len(first))
	}
}

func TestQueueEmitsInitialSnapshotWhenEmpty(t *testing.T) {
	store := test.NewOrderStoreStub()

	queue, err := Watch(context.Background(), store, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer queue.Close()

	if first := recvSnapshot(t, queue.Snapshots()); len(first) != 0 {
		t.Fatalf("expected empty snapshot, got %d orders", len(first))
	}
}

func TestQueueRebuildsOnChange(t *testing.T) {
	store := test.NewOrderStoreStub(
		model.Order{ID: "order-1", Table: "01", Status: model.OrderStatusPending},
	)

	queue, err := Watch(context.Background(), store, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer queue.Close()

	recvSnapshot(t, queue.Snapshots())

	if err := store.UpdateStatus(context.Background(), "order-1", model.OrderStatusPreparing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := recvSnapshot(t, queue.Snapshots())
	if len(next) != 1 || next[0].Status != model.OrderStatusPreparing {
		t.Fatalf("expected rebuilt snapshot with preparing order, got %+v", next)
	}
}

func TestQueueSeesDeparturesFromActiveSet(t *testing.T) {
	store := test.NewOrderStoreStub(
		model.Order{ID: "order-1", Table: "01", Status: model.OrderStatusReady},
		model.Order{ID: "order-2", Table: "02", Status: model.OrderStatusPending},
	)

	queue, err := Watch(context.Background(), store, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer queue.Close()

	recvSnapshot(t, queue.Snapshots())

	if err := store.UpdateStatus(context.Background(), "order-1", model.OrderStatusDelivered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := recvSnapshot(t, queue.Snapshots())
	if len(next) != 1 || next[0].ID != "order-2" {
		t.Fatalf("delivered order must leave the queue, got %+v", next)
	}
}

func TestQueueCloseEndsFeed(t *testing.T) {
	store := test.NewOrderStoreStub()

	queue, err := Watch(context.Background(), store, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recvSnapshot(t, queue.Snapshots())
	queue.Close()

	select {
	case _, ok := <-queue.Snapshots():
		if ok {
			t.Fatal("expected closed snapshots channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
