package messaging

import (
	"log"
	"time"

	"github.com/stevelan1995/taskgrid/pkg/observer"
)

// BusObserver adapts an executor Observer onto a Bus, translating
// OnEntry/OnExit into node.entered/node.exited events. It never blocks
// a worker: Publish errors are logged and dropped, matching how
// ChannelObserver drops events on a full buffer.
type BusObserver struct {
	bus *Bus
}

// NewBusObserver returns an Observer that republishes every lifecycle
// callback onto bus.
func NewBusObserver(bus *Bus) *BusObserver {
	return &BusObserver{bus: bus}
}

func (o *BusObserver) SetUp(numWorkers int) {}

func (o *BusObserver) OnEntry(view observer.TaskView) {
	o.publish(EventNodeEntered, view, nil)
}

func (o *BusObserver) OnExit(view observer.TaskView) {
	o.publish(EventNodeExited, view, nil)
}

func (o *BusObserver) publish(t EventType, view observer.TaskView, err error) {
	event := Event{
		Type:      t,
		GraphName: view.GraphName,
		NodeID:    view.NodeID,
		NodeName:  view.NodeName,
		WorkerID:  view.WorkerID,
		At:        time.Now(),
	}
	if err != nil {
		event.Err = err.Error()
	}
	if pubErr := o.bus.Publish(event); pubErr != nil {
		log.Printf("messaging: dropping %s event for node %s: %v", t, view.NodeID, pubErr)
	}
}
