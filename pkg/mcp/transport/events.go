package transport

// event is one server-to-client SSE event. IDs increase monotonically per
// session starting at 1; the id doubles as the resumption marker the client
// echoes back in Last-Event-ID.
type event struct {
	id   uint64
	data []byte
}

// eventRing is a bounded buffer of outbound events kept for replay after a
// stream reconnect. When full, the oldest event is dropped; a client resuming
// from a marker older than the window gets only what is still buffered.
//
// Not safe for concurrent use; the owning Transport serializes access.
type eventRing struct {
	buf   []event
	start int
	count int
}

func newEventRing(capacity int) *eventRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &eventRing{buf: make([]event, capacity)}
}

// append adds an event, evicting the oldest when the ring is full.
func (r *eventRing) append(ev event) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = ev
		r.count++
		return
	}
	r.buf[r.start] = ev
	r.start = (r.start + 1) % len(r.buf)
}

// after returns all buffered events with an id greater than marker, oldest
// first. A zero marker returns everything buffered.
func (r *eventRing) after(marker uint64) []event {
	out := make([]event, 0, r.count)
	for i := 0; i < r.count; i++ {
		ev := r.buf[(r.start+i)%len(r.buf)]
		if ev.id > marker {
			out = append(out, ev)
		}
	}
	return out
}

// len returns the number of buffered events.
func (r *eventRing) len() int {
	return r.count
}
