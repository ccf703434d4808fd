// Package modal replaces the dialog host: a view opens a descriptor with
// some input data and later learns whether it was closed with a reason or
// dismissed.
package modal

import (
	"strings"
	"sync"
)

type Descriptor string

const (
	DeleteDialog Descriptor = "sale-item-delete"
	Checkout     Descriptor = "checkout"
)

// ItemDeletedEvent is the close reason of a confirmed delete dialog.
const ItemDeletedEvent = "deleted"

type Ref struct {
	Descriptor Descriptor
	Data       any

	host    *Host
	key     string
	mu      sync.Mutex
	done    bool
	closed  bool
	reason  string
	onClose []func(reason string)
}

// OnClose registers fn to run when the dialog is closed (not dismissed).
func (r *Ref) OnClose(fn func(reason string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onClose = append(r.onClose, fn)
}

func (r *Ref) Close(reason string) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done, r.closed, r.reason = true, true, reason
	fns := r.onClose
	r.mu.Unlock()

	r.host.remove(r)
	for _, fn := range fns {
		fn(reason)
	}
}

func (r *Ref) Dismiss() {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	r.mu.Unlock()
	r.host.remove(r)
}

// Result reports the close reason; closed is false while open or after a dismiss.
func (r *Ref) Result() (reason string, closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason, r.closed
}

// Host tracks at most one open dialog per session and descriptor.
type Host struct {
	mu   sync.Mutex
	open map[string]*Ref
}

func NewHost() *Host {
	return &Host{open: map[string]*Ref{}}
}

func hostKey(session string, d Descriptor) string { return session + "|" + string(d) }

// Open shows d for session, dismissing a previous instance of the same dialog.
func (h *Host) Open(session string, d Descriptor, data any) *Ref {
	k := hostKey(session, d)
	h.mu.Lock()
	prev := h.open[k]
	ref := &Ref{Descriptor: d, Data: data, host: h, key: k}
	h.open[k] = ref
	h.mu.Unlock()

	if prev != nil {
		prev.Dismiss()
	}
	return ref
}

func (h *Host) Active(session string, d Descriptor) (*Ref, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.open[hostKey(session, d)]
	return r, ok
}

// Forget dismisses every dialog still open for session.
func (h *Host) Forget(session string) {
	prefix := session + "|"
	h.mu.Lock()
	var refs []*Ref
	for k, r := range h.open {
		if strings.HasPrefix(k, prefix) {
			refs = append(refs, r)
		}
	}
	h.mu.Unlock()
	for _, r := range refs {
		r.Dismiss()
	}
}

func (h *Host) remove(r *Ref) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open[r.key] == r {
		delete(h.open, r.key)
	}
}
