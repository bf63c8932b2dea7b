package listener

import "github.com/specialistvlad/arenaplug/internal/gameevent"

// Subscriber is a Listener backed by a handler function. Use a pointer so
// that each subscriber has its own identity in the directory.
type Subscriber struct {
	EntityID gameevent.EntityID
	Handler  func(sig gameevent.Signal)
}

// NewSubscriber creates a subscriber bound to entity.
func NewSubscriber(entity gameevent.EntityID, handler func(sig gameevent.Signal)) *Subscriber {
	return &Subscriber{EntityID: entity, Handler: handler}
}

func (s *Subscriber) Entity() gameevent.EntityID { return s.EntityID }

func (s *Subscriber) OnEvent(sig gameevent.Signal) {
	if s.Handler != nil {
		s.Handler(sig)
	}
}
