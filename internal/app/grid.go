package app

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/evanschultz/tabula/internal/domain"
)

// Grid owns the selection state and performs every mutation of its Store.
// All methods run synchronously; callers deliver events one at a time.
type Grid struct {
	*Selector
	namer KeyNamer
}

// Option configures a Grid.
type Option func(*Grid)

// WithLogger sets the logger used for declined-operation diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(g *Grid) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithObserver registers the observer notified after selection changes and mutations.
func WithObserver(observer Observer) Option {
	return func(g *Grid) {
		g.observer = observer
	}
}

// WithKeyNamer sets the column naming strategy.
func WithKeyNamer(namer KeyNamer) Option {
	return func(g *Grid) {
		if namer != nil {
			g.namer = namer
		}
	}
}

// NewGrid constructs a grid over store using policy.
func NewGrid(store Store, policy domain.Policy, opts ...Option) *Grid {
	g := &Grid{
		Selector: &Selector{
			store:  store,
			policy: policy.Clone(),
			logger: log.Default(),
		},
		namer: DefaultKeyNamer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Store returns the backing store.
func (g *Grid) Store() Store {
	return g.store
}

// Policy returns a copy of the active policy.
func (g *Grid) Policy() domain.Policy {
	return g.policy.Clone()
}

// SetPolicy replaces the active policy. Disabling editing ends any in-progress edit.
func (g *Grid) SetPolicy(policy domain.Policy) {
	g.policy = policy.Clone()
	if !g.policy.Editable {
		g.hasEdited = false
	}
}

// ColumnKey returns the key at display index col.
func (g *Grid) ColumnKey(col int) (string, bool) {
	order := g.store.ColumnOrder()
	if col < 0 || col >= len(order) {
		return "", false
	}
	return order[col], true
}

// canEdit reports whether cell writes are enabled.
func (g *Grid) canEdit(op string) bool {
	if !g.policy.Editable {
		g.decline(op, "grid not editable")
		return false
	}
	return true
}

// canEditColumns reports whether structural column changes are enabled.
func (g *Grid) canEditColumns(op string) bool {
	if !g.canEdit(op) {
		return false
	}
	if !g.policy.AllowAddCols {
		g.decline(op, "column changes disabled")
		return false
	}
	return true
}

// canEditRows reports whether structural row changes are enabled.
func (g *Grid) canEditRows(op string) bool {
	if !g.canEdit(op) {
		return false
	}
	if !g.policy.AllowAddRows {
		g.decline(op, "row changes disabled")
		return false
	}
	return true
}

// taken reports whether key already names a column.
func (g *Grid) taken(key string) bool {
	if _, ok := g.store.Column(key); ok {
		return true
	}
	return slices.Contains(g.store.ColumnOrder(), key)
}

// rowDefaults returns the per-column default values used for new rows.
func (g *Grid) rowDefaults() map[string]any {
	order := g.store.ColumnOrder()
	out := make(map[string]any, len(order))
	for _, key := range order {
		out[key] = g.policy.DefaultFor(key)
	}
	return out
}

// fullColumns returns the rectangle spanning columns [from,to] over every row.
func (g *Grid) fullColumns(from, to int) domain.Selection {
	return domain.Selection{
		Start: domain.Coord{Col: from, Row: 0},
		End:   domain.Coord{Col: to, Row: max(g.LastRow(), 0)},
	}
}

// fullRows returns the rectangle spanning rows [from,to] over every column.
func (g *Grid) fullRows(from, to int) domain.Selection {
	return domain.Selection{
		Start: domain.Coord{Col: 0, Row: from},
		End:   domain.Coord{Col: max(g.LastCol(), 0), Row: to},
	}
}

// emit notifies the observer of a completed mutation.
func (g *Grid) emit(op domain.ChangeOperation, rng domain.Selection, keys ...string) {
	g.logger.Debug("grid changed", "op", op, "range", rng, "keys", keys)
	if g.observer != nil {
		g.observer.GridChanged(domain.ChangeEvent{Operation: op, Range: rng, Keys: keys})
	}
}
