package bot

import "sync"

// sudoFlow tracks at most one pending privileged action per chat
// identity. The next message from that identity consumes the entry no
// matter how the confirmation turns out.
type sudoFlow struct {
	mu      sync.Mutex
	pending map[int64]string
}

func newSudoFlow() *sudoFlow {
	return &sudoFlow{pending: make(map[int64]string)}
}

// Begin stores action as pending for the identity, replacing any earlier
// pending action.
func (f *sudoFlow) Begin(id int64, action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[id] = action
}

// Take removes and returns the pending action for the identity.
func (f *sudoFlow) Take(id int64) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	action, ok := f.pending[id]
	if ok {
		delete(f.pending, id)
	}
	return action, ok
}
