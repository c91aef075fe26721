package websocket

// EventPublisher pushes events to the connected clients of a group
type EventPublisher interface {
	Publish(groupID int32, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish broadcasts the event to the group
func (h *Hub) Publish(groupID int32, event Event) {
	h.Broadcast(groupID, event)
}

// NoOpPublisher drops every event. Used when realtime updates are disabled.
type NoOpPublisher struct{}

func (n *NoOpPublisher) Publish(groupID int32, event Event) {}
