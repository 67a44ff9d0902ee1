// Package menu models the ordered, gated actions a front end offers.
package menu

import (
	"fmt"

	"github.com/example/hades-route-manager/internal/routes/domain"
)

// Gate decides whether an entry can be invoked. The zero value is
// AlwaysEnabled.
type Gate struct {
	pred func() bool
}

// AlwaysEnabled never closes.
var AlwaysEnabled = Gate{}

// Gated opens only while pred returns true. It panics on a nil pred, which
// would otherwise be indistinguishable from AlwaysEnabled.
func Gated(pred func() bool) Gate {
	if pred == nil {
		panic("menu: Gated called with nil predicate")
	}
	return Gate{pred: pred}
}

// IsGated reports whether the gate depends on a predicate.
func (g Gate) IsGated() bool {
	return g.pred != nil
}

// Open reports whether the gate currently allows invocation.
func (g Gate) Open() bool {
	return g.pred == nil || g.pred()
}

// Entry is one menu action.
type Entry struct {
	Label  string
	Gate   Gate
	Action func() error
}

// Invoke runs the action after checking the gate again.
func (e Entry) Invoke() error {
	if !e.Gate.Open() {
		return fmt.Errorf("%w: %q is not available", domain.ErrPrecondition, e.Label)
	}
	return e.Action()
}

// Menu is an ordered list of entries.
type Menu []Entry

// Enabled returns the entries whose gates are open, in order.
func (m Menu) Enabled() Menu {
	enabled := make(Menu, 0, len(m))
	for _, e := range m {
		if e.Gate.Open() {
			enabled = append(enabled, e)
		}
	}
	return enabled
}

// Labels returns the label of every entry, in order.
func (m Menu) Labels() []string {
	labels := make([]string, len(m))
	for i, e := range m {
		labels[i] = e.Label
	}
	return labels
}

// Find returns the entry with the given label.
func (m Menu) Find(label string) (Entry, bool) {
	for _, e := range m {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}
