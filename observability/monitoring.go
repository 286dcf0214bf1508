// Package observability aggregates runtime signals of the relay.
// It only counts; reporting is done by the health worker.
package observability

import "sync/atomic"

// Stats is a point-in-time view of the relay counters.
type Stats struct {
	MessagesBroadcast uint64
	MessagesDropped   uint64
	DeliveryFailures  uint64
	ConnectionsOpened uint64
	ConnectionsClosed uint64
}

// Monitor holds atomic counters updated from many goroutines.
// The zero value is usable but NewMonitor keeps construction uniform.
type Monitor struct {
	messagesBroadcast atomic.Uint64
	messagesDropped   atomic.Uint64
	deliveryFailures  atomic.Uint64
	connectionsOpened atomic.Uint64
	connectionsClosed atomic.Uint64
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) MessageBroadcast() { m.messagesBroadcast.Add(1) }
func (m *Monitor) MessageDropped()   { m.messagesDropped.Add(1) }
func (m *Monitor) DeliveryFailure()  { m.deliveryFailures.Add(1) }
func (m *Monitor) ConnectionOpened() { m.connectionsOpened.Add(1) }
func (m *Monitor) ConnectionClosed() { m.connectionsClosed.Add(1) }

func (m *Monitor) GetLatest() Stats {
	return Stats{
		MessagesBroadcast: m.messagesBroadcast.Load(),
		MessagesDropped:   m.messagesDropped.Load(),
		DeliveryFailures:  m.deliveryFailures.Load(),
		ConnectionsOpened: m.connectionsOpened.Load(),
		ConnectionsClosed: m.connectionsClosed.Load(),
	}
}
