package entity

import "strings"

// Warehouse is one entry of the static warehouse catalog.
type Warehouse struct {
	ID              int64
	Name            string
	Address         string
	WorkTime        string
	AcceptsQR       bool
	IsActive        bool
	IsTransitActive bool
}

// Catalog is the warehouse list with name lookup. The catalog changes
// rarely and is cached by the provider.
type Catalog struct {
	warehouses []Warehouse
	byID       map[int64]Warehouse
	byName     map[string]Warehouse
}

func NewCatalog(warehouses []Warehouse) *Catalog {
	c := &Catalog{
		warehouses: warehouses,
		byID:       make(map[int64]Warehouse, len(warehouses)),
		byName:     make(map[string]Warehouse, len(warehouses)),
	}

	for _, w := range warehouses {
		c.byID[w.ID] = w
		c.byName[strings.ToLower(strings.TrimSpace(w.Name))] = w
	}

	return c
}

func (c *Catalog) All() []Warehouse {
	return c.warehouses
}

func (c *Catalog) ByID(id int64) (Warehouse, bool) {
	w, ok := c.byID[id]
	return w, ok
}

// ByName resolves a warehouse case-insensitively, the way the spreadsheet
// refers to warehouses.
func (c *Catalog) ByName(name string) (Warehouse, bool) {
	w, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return w, ok
}
