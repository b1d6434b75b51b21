package realtime

import "sync"

// Directory maps a user id to its live send channel. It is the only path
// for server-to-client delivery: sends are non-blocking, and recipients
// that are absent or lagging are skipped, never treated as errors.
type Directory struct {
	mu    sync.Mutex
	conns map[string]chan []byte
}

// NewDirectory creates an empty connection directory.
func NewDirectory() *Directory {
	return &Directory{conns: make(map[string]chan []byte)}
}

// Set registers ch as the user's live channel, replacing any previous one.
// A replaced channel is left open; its owning connection closes it via Remove.
func (d *Directory) Set(userID string, ch chan []byte) {
	d.mu.Lock()
	d.conns[userID] = ch
	d.mu.Unlock()
}

// Get returns the user's channel if one is registered.
func (d *Directory) Get(userID string) (chan []byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch, ok := d.conns[userID]
	return ch, ok
}

// Remove closes ch and drops the user's entry, but only if the entry still
// is ch: a reconnect that already replaced the channel is left alone.
// Send and Broadcast hold the same lock, so no send races the close.
func (d *Directory) Remove(userID string, ch chan []byte) {
	d.mu.Lock()
	if d.conns[userID] == ch {
		delete(d.conns, userID)
	}
	close(ch)
	d.mu.Unlock()
}

// Send queues msg for one user. Returns false if the user has no channel
// registered or the channel is full.
func (d *Directory) Send(userID string, msg []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch, ok := d.conns[userID]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

// SendEach queues msg for each listed user, skipping absent recipients.
func (d *Directory) SendEach(userIDs []string, msg []byte) {
	d.mu.Lock()
	for _, id := range userIDs {
		ch, ok := d.conns[id]
		if !ok {
			continue
		}
		select {
		case ch <- msg:
		default:
		}
	}
	d.mu.Unlock()
}

// ForEach calls fn with every registered user id and channel.
func (d *Directory) ForEach(fn func(userID string, ch chan []byte)) {
	d.mu.Lock()
	for id, ch := range d.conns {
		fn(id, ch)
	}
	d.mu.Unlock()
}

// Broadcast queues msg for every registered user.
func (d *Directory) Broadcast(msg []byte) {
	d.mu.Lock()
	for _, ch := range d.conns {
		select {
		case ch <- msg:
		default:
		}
	}
	d.mu.Unlock()
}
