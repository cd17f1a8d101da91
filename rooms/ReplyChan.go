package rooms

import "sync"

// replyChan matches phx_reply frames to the pushes waiting for them, keyed by
// the push ref. Each push opens a channel before writing its frame so an
// immediate reply cannot be missed.
type replyChan struct {
	mux sync.Mutex

	// map of push ref to its single-reply delivery channel
	pending map[string]chan *phxReply
}

func newReplyChan() *replyChan {
	return &replyChan{
		pending: make(map[string]chan *phxReply),
	}
}

// Open registers a ref and returns the channel its reply will arrive on.
// Call Close(ref) when done.
func (rc *replyChan) Open(ref string) chan *phxReply {
	// buffer 1 so Handle never blocks on a reply that races the waiter
	rChan := make(chan *phxReply, 1)
	rc.mux.Lock()
	rc.pending[ref] = rChan
	rc.mux.Unlock()
	return rChan
}

// Close removes a ref and its channel.
func (rc *replyChan) Close(ref string) {
	rc.mux.Lock()
	defer rc.mux.Unlock()
	rChan, found := rc.pending[ref]
	if found {
		delete(rc.pending, ref)
		close(rChan)
	}
}

// CloseAll force closes all pending channels, failing every waiting push.
// Used when the connection drops.
func (rc *replyChan) CloseAll() {
	rc.mux.Lock()
	defer rc.mux.Unlock()
	for _, rChan := range rc.pending {
		close(rChan)
	}
	rc.pending = make(map[string]chan *phxReply)
}

// Handle delivers a reply to the push waiting on its ref.
// This returns false if no-one is waiting for the ref.
func (rc *replyChan) Handle(ref string, reply *phxReply) bool {
	// lock across lookup and write so Close cannot race the send
	rc.mux.Lock()
	defer rc.mux.Unlock()
	rChan, found := rc.pending[ref]
	if !found {
		return false
	}
	select {
	case rChan <- reply:
	default:
		// duplicate reply for the same ref; the first one won
	}
	return true
}

func (rc *replyChan) Len() int {
	rc.mux.Lock()
	defer rc.mux.Unlock()
	return len(rc.pending)
}
