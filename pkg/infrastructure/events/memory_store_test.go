package events

import (
	"testing"

	"github.com/fossawork/fossawork/pkg/filter"
)

func TestInMemoryEventStore_AppendAssignsVersions(t *testing.T) {
	store := NewInMemoryEventStore()

	wo := filter.WorkOrder{ID: "WO-1", ServiceCode: filter.CodeAllDispenserMeter}
	if err := store.AppendEvent("WO-1", NewWorkOrderScrapedEvent("tech1", wo)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent("WO-1", NewWorkOrderRemovedEvent("tech1", "WO-1")); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	evts, err := store.ReadEvents("WO-1", 0)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(evts) != 2 {
		t.Fatalf("ReadEvents returned %d events, want 2", len(evts))
	}
	if evts[0].Version() != 1 || evts[1].Version() != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", evts[0].Version(), evts[1].Version())
	}
	if evts[0].Type() != WorkOrderScrapedEvent {
		t.Errorf("first event type = %s", evts[0].Type())
	}
}

func TestInMemoryEventStore_ReadFromVersion(t *testing.T) {
	store := NewInMemoryEventStore()
	for i := 0; i < 3; i++ {
		wo := filter.WorkOrder{ID: "WO-1"}
		_ = store.AppendEvent("WO-1", NewWorkOrderScrapedEvent("tech1", wo))
	}

	evts, _ := store.ReadEvents("WO-1", 3)
	if len(evts) != 1 {
		t.Errorf("ReadEvents from version 3 returned %d events, want 1", len(evts))
	}

	evts, _ = store.ReadEvents("WO-1", 99)
	if len(evts) != 0 {
		t.Errorf("ReadEvents past end returned %d events, want 0", len(evts))
	}

	evts, _ = store.ReadEvents("missing", 1)
	if len(evts) != 0 {
		t.Errorf("ReadEvents on unknown stream returned %d events, want 0", len(evts))
	}
}

func TestInMemoryEventStore_ReadAllEvents(t *testing.T) {
	store := NewInMemoryEventStore()
	_ = store.AppendEvent("a", NewWorkOrderRemovedEvent("tech1", "a"))
	_ = store.AppendEvent("b", NewWorkOrderRemovedEvent("tech1", "b"))

	all, err := store.ReadAllEvents(0)
	if err != nil {
		t.Fatalf("ReadAllEvents failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ReadAllEvents returned %d events, want 2", len(all))
	}

	tail, _ := store.ReadAllEvents(1)
	if len(tail) != 1 || tail[0].StreamID() != "b" {
		t.Errorf("ReadAllEvents(1) = %v", tail)
	}
}
