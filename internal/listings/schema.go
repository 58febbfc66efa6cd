package listings

import (
	"fmt"

	"cpu-listings/internal/common/validation"
)

type ColumnType string

const (
	ColumnUUID    ColumnType = "uuid"
	ColumnText    ColumnType = "text"
	ColumnInteger ColumnType = "integer"
)

type ColumnDef struct {
	Name        string
	Type        ColumnType
	NotNull     bool
	NonNegative bool
}

type TableDef struct {
	Name    string
	Columns []ColumnDef
}

func (t TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

var (
	CPUModelsTable = TableDef{
		Name: "cpu_models",
		Columns: []ColumnDef{
			{Name: "id", Type: ColumnUUID, NotNull: true},
			{Name: "name", Type: ColumnText, NotNull: true},
		},
	}

	SuppliersTable = TableDef{
		Name: "suppliers",
		Columns: []ColumnDef{
			{Name: "id", Type: ColumnUUID, NotNull: true},
			{Name: "name", Type: ColumnText, NotNull: true},
		},
	}

	ListingsTable = TableDef{
		Name: "listings",
		Columns: []ColumnDef{
			{Name: "id", Type: ColumnUUID, NotNull: true},
			{Name: "cpu_model_id", Type: ColumnUUID, NotNull: true},
			{Name: "supplier_id", Type: ColumnUUID, NotNull: true},
			{Name: "price", Type: ColumnInteger, NotNull: true, NonNegative: true},
			{Name: "shipping_cost", Type: ColumnInteger, NotNull: true, NonNegative: true},
			{Name: "url", Type: ColumnText, NotNull: true},
		},
	}

	tables = map[string]TableDef{
		CPUModelsTable.Name: CPUModelsTable,
		SuppliersTable.Name: SuppliersTable,
		ListingsTable.Name:  ListingsTable,
	}
)

// listingProjection is the column list of the listing query, in output order.
var listingProjection = []Column{
	{Table: "listings", Name: "id", Alias: "id"},
	{Table: "cpu_models", Name: "name", Alias: "name"},
	{Table: "listings", Name: "price", Alias: "price"},
	{Table: "listings", Name: "shipping_cost", Alias: "shippingCost"},
	{Table: "suppliers", Name: "name", Alias: "supplier"},
	{Table: "listings", Name: "url", Alias: "url"},
}

// ListingQuery selects every listing with its model and supplier names,
// cheapest first.
func ListingQuery() SelectQuery {
	return SelectQuery{
		Columns: listingProjection,
		From:    ListingsTable.Name,
		Joins: []Join{
			{
				Table: CPUModelsTable.Name,
				Left:  Column{Table: "listings", Name: "cpu_model_id"},
				Right: Column{Table: "cpu_models", Name: "id"},
			},
			{
				Table: SuppliersTable.Name,
				Left:  Column{Table: "listings", Name: "supplier_id"},
				Right: Column{Table: "suppliers", Name: "id"},
			},
		},
		OrderBy: Column{Table: "listings", Name: "price"},
	}
}

// RowSchema derives the JSON schema of a projected record from the table
// definitions of its columns.
func RowSchema(projection []Column) (validation.JSONSchema, error) {
	schema := validation.JSONSchema{
		Type:       "object",
		Properties: make(map[string]validation.Property, len(projection)),
		Required:   make([]string, 0, len(projection)),
	}

	for _, col := range projection {
		table, ok := tables[col.Table]
		if !ok {
			return validation.JSONSchema{}, fmt.Errorf("unknown table %q", col.Table)
		}
		def, ok := table.Column(col.Name)
		if !ok {
			return validation.JSONSchema{}, fmt.Errorf("unknown column %s.%s", col.Table, col.Name)
		}

		prop := propertyFor(def)
		schema.Properties[col.OutputName()] = prop
		schema.Required = append(schema.Required, col.OutputName())
	}
	return schema, nil
}

func propertyFor(def ColumnDef) validation.Property {
	var prop validation.Property
	jsonType := "string"
	switch def.Type {
	case ColumnUUID:
		prop.Format = "uuid"
	case ColumnInteger:
		jsonType = "integer"
		if def.NonNegative {
			zero := 0.0
			prop.Minimum = &zero
		}
	}

	if def.NotNull {
		prop.Type = jsonType
	} else {
		prop.Type = []string{jsonType, "null"}
	}
	return prop
}
