// Package catalog holds the static list of tech categories and the
// currently active one.
package catalog

import (
	"slices"

	"github.com/p-n-ai/pai-tutorials/internal/state"
)

// TechCategory is a top-level technology shown in the category strip.
type TechCategory struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}

// Directory exposes the category list and the active category.
type Directory struct {
	categories []TechCategory
	active     *state.Cell[TechCategory]
}

// NewDirectory creates a directory over a list loaded once at startup.
func NewDirectory(categories []TechCategory) *Directory {
	return &Directory{
		categories: slices.Clone(categories),
		active:     state.NewCell[TechCategory](),
	}
}

// List returns every category in asset order.
func (d *Directory) List() []TechCategory {
	return slices.Clone(d.categories)
}

// Activate marks the category with the given url as active. An unknown url
// returns false and leaves the active category as it was.
func (d *Directory) Activate(url string) (TechCategory, bool) {
	i := slices.IndexFunc(d.categories, func(c TechCategory) bool {
		return c.URL == url
	})
	if i < 0 {
		return TechCategory{}, false
	}
	c := d.categories[i]
	d.active.Set(c)
	return c, true
}

// Active returns the active category, if any.
func (d *Directory) Active() (TechCategory, bool) {
	return d.active.Get()
}

// Subscribe registers fn for active category changes.
func (d *Directory) Subscribe(fn func(TechCategory)) (cancel func()) {
	return d.active.Subscribe(fn)
}
