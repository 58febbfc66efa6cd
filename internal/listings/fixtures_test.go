package listings

import (
	"github.com/google/uuid"
)

type fixture struct {
	*MemoryQuerier
	models    map[string]string
	suppliers map[string]string
}

func newFixture() *fixture {
	return &fixture{
		MemoryQuerier: NewMemoryQuerier(),
		models:        make(map[string]string),
		suppliers:     make(map[string]string),
	}
}

func (f *fixture) model(name string) string {
	if id, ok := f.models[name]; ok {
		return id
	}
	id := uuid.NewString()
	f.models[name] = id
	f.Insert("cpu_models", Record{"id": id, "name": name})
	return id
}

func (f *fixture) supplier(name string) string {
	if id, ok := f.suppliers[name]; ok {
		return id
	}
	id := uuid.NewString()
	f.suppliers[name] = id
	f.Insert("suppliers", Record{"id": id, "name": name})
	return id
}

// listing inserts a listing referencing the named model and supplier and
// returns its id.
func (f *fixture) listing(model, supplier string, price, shipping int64) string {
	id := uuid.NewString()
	f.Insert("listings", Record{
		"id":            id,
		"cpu_model_id":  f.model(model),
		"supplier_id":   f.supplier(supplier),
		"price":         price,
		"shipping_cost": shipping,
		"url":           "https://shop.example/" + id,
	})
	return id
}
