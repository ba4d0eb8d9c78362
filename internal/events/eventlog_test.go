package events

import (
	"sync"
	"testing"
)

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	log := NewEventLog(nil)

	log.Append(SimEvent{Type: EventTypeZoneGrowth, X: 3, Y: 4, Tick: 12})

	all := log.Replay()
	if len(all) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(all))
	}
	if all[0].ID == "" {
		t.Errorf("Expected generated event id")
	}
	if all[0].Timestamp.IsZero() {
		t.Errorf("Expected timestamp assigned on append")
	}
}

func TestGetByType(t *testing.T) {
	log := NewEventLog(nil)
	log.Append(SimEvent{Type: EventTypeZoneGrowth, Tick: 1})
	log.Append(SimEvent{Type: EventTypeZoneDecline, Tick: 2})
	log.Append(SimEvent{Type: EventTypeZoneGrowth, Tick: 3})

	growth := log.GetByType(EventTypeZoneGrowth)
	if len(growth) != 2 {
		t.Errorf("Expected 2 growth events, got %d", len(growth))
	}
	if len(log.GetByType(EventTypeMeltdown)) != 0 {
		t.Errorf("Expected no meltdown events")
	}
}

func TestGetSinceTick(t *testing.T) {
	log := NewEventLog(nil)
	for tick := int64(0); tick < 10; tick++ {
		log.Append(SimEvent{Type: EventTypeTimeTick, Tick: tick})
	}

	since := log.GetSinceTick(7)
	if len(since) != 3 {
		t.Errorf("Expected 3 events since tick 7, got %d", len(since))
	}
	for _, e := range since {
		if e.Tick < 7 {
			t.Errorf("Expected ticks >= 7, got %d", e.Tick)
		}
	}
}

type countingPersister struct {
	mu    sync.Mutex
	count int
	done  chan struct{}
	want  int
}

func (p *countingPersister) Append(event SimEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	if p.count == p.want {
		close(p.done)
	}
	return nil
}

func TestAppendWritesThroughPersister(t *testing.T) {
	p := &countingPersister{done: make(chan struct{}), want: 3}
	log := NewEventLog(p)

	for i := 0; i < 3; i++ {
		log.Append(SimEvent{Type: EventTypeZoneGrowth, Tick: int64(i)})
	}

	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count != 3 {
		t.Errorf("Expected 3 persisted events, got %d", p.count)
	}
}

func TestConcurrentAppend(t *testing.T) {
	log := NewEventLog(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(tick int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.Append(SimEvent{Type: EventTypeZoneGrowth, Tick: tick})
			}
		}(int64(i))
	}
	wg.Wait()

	if got := log.Len(); got != 400 {
		t.Errorf("Expected 400 events, got %d", got)
	}
}
