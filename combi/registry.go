package combi

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Registry records the indices of generated columns. Joins and
// concatenations share one registry so no two of them claim the same
// column.
type Registry struct {
	labels map[int]string
}

func NewRegistry() *Registry {
	return &Registry{labels: make(map[int]string)}
}

// Register claims index for label.
func (r *Registry) Register(index int, label string) error {
	if r.Has(index) {
		return fmt.Errorf("%w: %d already holds %q", ErrDuplicateIndex, index, r.labels[index])
	}
	r.labels[index] = label
	return nil
}

func (r *Registry) Has(index int) bool {
	_, ok := r.labels[index]
	return ok
}

func (r *Registry) Len() int { return len(r.labels) }

func (r *Registry) Label(index int) (string, bool) {
	l, ok := r.labels[index]
	return l, ok
}

// Indices returns the registered indices in ascending order.
func (r *Registry) Indices() []int {
	idx := lo.Keys(r.labels)
	slices.Sort(idx)
	return idx
}

// Relation maps appended primary columns to the combination table columns
// they were filled from. It is injective in both directions.
type Relation struct {
	toSecondary map[int]int
	toPrimary   map[int]int
}

func NewRelation() *Relation {
	return &Relation{toSecondary: make(map[int]int), toPrimary: make(map[int]int)}
}

// Add relates a primary column to a secondary column.
func (r *Relation) Add(primary, secondary int) error {
	if _, ok := r.toSecondary[primary]; ok {
		return fmt.Errorf("%w: primary column %d already related", ErrDuplicateIndex, primary)
	}
	if _, ok := r.toPrimary[secondary]; ok {
		return fmt.Errorf("%w: secondary column %d already related", ErrDuplicateIndex, secondary)
	}
	r.toSecondary[primary] = secondary
	r.toPrimary[secondary] = primary
	return nil
}

func (r *Relation) Secondary(primary int) (int, bool) {
	s, ok := r.toSecondary[primary]
	return s, ok
}

func (r *Relation) Primary(secondary int) (int, bool) {
	p, ok := r.toPrimary[secondary]
	return p, ok
}

func (r *Relation) Len() int { return len(r.toSecondary) }

// PrimaryColumns returns the related primary columns in ascending order.
func (r *Relation) PrimaryColumns() []int {
	cols := lo.Keys(r.toSecondary)
	slices.Sort(cols)
	return cols
}
