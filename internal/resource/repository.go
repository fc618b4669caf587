package resource

import (
	"context"
	"strings"
)

type Repository interface {
	List(ctx context.Context) ([]*Resource, error)
	GetByName(ctx context.Context, name string) (*Resource, error)
}

// staticRepository serves a fixed catalog loaded at startup. Order is preserved.
type staticRepository struct {
	items  []*Resource
	byName map[string]*Resource
}

// NewStaticRepository builds a catalog from names. Names are trimmed; blank or
// repeated names are rejected.
func NewStaticRepository(names []string) (Repository, error) {
	r := &staticRepository{byName: make(map[string]*Resource, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, ErrEmptyName
		}
		if _, ok := r.byName[n]; ok {
			return nil, ErrDuplicate
		}
		res := &Resource{Name: n}
		r.items = append(r.items, res)
		r.byName[n] = res
	}
	return r, nil
}

func (r *staticRepository) List(ctx context.Context) ([]*Resource, error) {
	out := make([]*Resource, len(r.items))
	for i, res := range r.items {
		cp := *res
		out[i] = &cp
	}
	return out, nil
}

func (r *staticRepository) GetByName(ctx context.Context, name string) (*Resource, error) {
	res, ok := r.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	return &cp, nil
}
