package domain

import "github.com/danielgtaylor/huma/v2"

// Schema implements huma.SchemaProvider. Date serializes as an
// ISO-8601 date string, not as the underlying struct.
func (Date) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:     huma.TypeString,
		Format:   "date",
		Examples: []any{"2024-06-15"},
	}
}
