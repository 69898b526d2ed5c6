package publishers

import "io"

// actionRouter is implemented by sinks that only take some actions.
type actionRouter interface {
	Accepts(action string) bool
}

// routedPublisher restricts a sink to a fixed set of actions.
type routedPublisher struct {
	Publisher
	actions map[string]struct{}
}

func routeActions(pub Publisher, actions []string) Publisher {
	if len(actions) == 0 {
		return pub
	}
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return &routedPublisher{Publisher: pub, actions: set}
}

// Accepts reports whether evt.Action is routed to this sink.
func (r *routedPublisher) Accepts(action string) bool {
	_, ok := r.actions[action]
	return ok
}

// Close releases the wrapped sink when it holds resources.
func (r *routedPublisher) Close() error {
	if c, ok := r.Publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func accepts(pub Publisher, action string) bool {
	if r, ok := pub.(actionRouter); ok {
		return r.Accepts(action)
	}
	return true
}
