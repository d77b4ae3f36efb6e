// Package repository contains data access logic separated from HTTP handlers.
// This file holds the dashboard query and the conversion of driver rows into
// model.Row values.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/vivacrm/dashboard-api/internal/database"
	"github.com/vivacrm/dashboard-api/internal/model"
)

// DashboardQuery is the fixed, parameterless query served by GET /dashboard.
const DashboardQuery = "SELECT 1"

// Querier is satisfied by *sql.Conn, *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DashboardRepo runs the dashboard query on a borrowed handle.  It holds no
// connection of its own.
type DashboardRepo struct{}

func NewDashboardRepo() *DashboardRepo { return &DashboardRepo{} }

// Fetch executes DashboardQuery on q and returns every row in result order.
// Any failure is wrapped in database.ErrQueryExecutionFailed.
func (r *DashboardRepo) Fetch(ctx context.Context, q Querier) ([]model.Row, error) {
	rows, err := q.QueryContext(ctx, DashboardQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", database.ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", database.ErrQueryExecutionFailed, err)
	}
	return out, nil
}

// scanRows turns a result set into rows keyed by column name.  Column type
// metadata is only looked up when a driver hands back raw bytes.
func scanRows(rows *sql.Rows) ([]model.Row, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var types []*sql.ColumnType
	out := make([]model.Row, 0)
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			b, ok := v.([]byte)
			if !ok {
				continue
			}
			if types == nil {
				if types, err = rows.ColumnTypes(); err != nil {
					types = []*sql.ColumnType{}
				}
			}
			dbType := ""
			if i < len(types) {
				dbType = types[i].DatabaseTypeName()
			}
			vals[i] = fromBytes(b, dbType)
		}
		out = append(out, model.NewRow(names, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var (
	intTypes = map[string]bool{
		"INT": true, "INTEGER": true, "TINYINT": true, "SMALLINT": true, "MEDIUMINT": true,
		"BIGINT": true, "INT2": true, "INT4": true, "INT8": true, "YEAR": true,
	}
	floatTypes = map[string]bool{
		"FLOAT": true, "DOUBLE": true, "REAL": true, "DECIMAL": true, "NUMERIC": true,
		"FLOAT4": true, "FLOAT8": true,
	}
)

// fromBytes types a text-protocol value using the column's database type.
// Values that do not parse as the declared type are returned as strings.
func fromBytes(b []byte, dbType string) any {
	s := string(b)
	t := strings.TrimPrefix(strings.ToUpper(dbType), "UNSIGNED ")
	switch {
	case intTypes[t]:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		// UNSIGNED BIGINT above MaxInt64
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	case floatTypes[t]:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
