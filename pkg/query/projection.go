// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the table, alias, column mappings, and joins for SQL query construction.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	joins      []string
	joinAlias  string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		joinAlias:  alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
// Columns added after a Join call qualify against the joined table's alias.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.joinAlias, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Join adds a join clause; subsequent Project calls qualify against the joined alias.
func (p *ProjectionMap) Join(schema, table, alias, joinType, on string) *ProjectionMap {
	p.joins = append(p.joins, fmt.Sprintf("%s %s.%s %s ON %s", joinType, schema, table, alias, on))
	p.joinAlias = alias
	return p
}

// Alias returns the base table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From returns the FROM clause body: the qualified base table with alias,
// followed by any join clauses.
func (p *ProjectionMap) From() string {
	from := fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
	if len(p.joins) == 0 {
		return from
	}
	return from + " " + strings.Join(p.joins, " ")
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}
