package toast

// OpKind identifies the kind of state transition.
type OpKind string

const (
	OpAdd     OpKind = "ADD_TOAST"
	OpUpdate  OpKind = "UPDATE_TOAST"
	OpDismiss OpKind = "DISMISS_TOAST"
	OpRemove  OpKind = "REMOVE_TOAST"
)

// Op is a state transition applied to the toast list.
//
// OpAdd reads only Toast. OpUpdate reads ID and Patch. For OpDismiss and
// OpRemove an empty ID targets every toast.
type Op struct {
	Kind  OpKind
	Toast Toast
	ID    string
	Patch Patch
}

// Reduce applies op to toasts and returns the resulting list. The input slice
// is never modified; every call that changes state returns a fresh slice.
// Reduce has no side effects: scheduling expiry for dismissed toasts is the
// store's job.
func Reduce(toasts []Toast, op Op, limit int) []Toast {
	switch op.Kind {
	case OpAdd:
		n := min(len(toasts)+1, max(limit, 0))
		next := make([]Toast, 0, n)
		if n == 0 {
			return next
		}
		next = append(next, op.Toast)
		next = append(next, toasts[:n-1]...)
		return next

	case OpUpdate:
		next := make([]Toast, len(toasts))
		for i, t := range toasts {
			if t.ID == op.ID {
				t = op.Patch.apply(t)
			}
			next[i] = t
		}
		return next

	case OpDismiss:
		next := make([]Toast, len(toasts))
		for i, t := range toasts {
			if op.ID == "" || t.ID == op.ID {
				t.Open = false
			}
			next[i] = t
		}
		return next

	case OpRemove:
		if op.ID == "" {
			return []Toast{}
		}
		next := make([]Toast, 0, len(toasts))
		for _, t := range toasts {
			if t.ID != op.ID {
				next = append(next, t)
			}
		}
		return next

	default:
		return toasts
	}
}
