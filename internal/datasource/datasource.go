// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package datasource loads the records behind a report dataset from inline
// rows, CSV or JSON files, or a SQL query.
package datasource

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jackc/pgx/v5"

	// SQL drivers selectable from report definitions.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/jeamick/ares-visual-sub001/internal/dataset"
	"github.com/jeamick/ares-visual-sub001/internal/redact"
	"github.com/jeamick/ares-visual-sub001/internal/reportdef"
	"github.com/jeamick/ares-visual-sub001/internal/testable"
)

// Drivers lists the driver names a dataset may use. "pgx" talks to
// PostgreSQL natively; the others go through database/sql.
var Drivers = []string{"mysql", "pgx", "postgres", "sqlite", "sqlserver"}

// Loader reads datasets. FS is used for file-backed datasets; relative paths
// are resolved against BaseDir.
type Loader struct {
	FS      testable.FileSystem
	BaseDir string
}

// NewLoader returns a loader reading files relative to baseDir.
func NewLoader(fsys testable.FileSystem, baseDir string) *Loader {
	if fsys == nil {
		fsys = testable.DefaultFS
	}
	return &Loader{FS: fsys, BaseDir: baseDir}
}

// Load returns the records of ds.
func (l *Loader) Load(ctx context.Context, ds reportdef.Dataset) (dataset.Recordset, error) {
	var (
		rs  dataset.Recordset
		err error
	)
	switch {
	case ds.Rows != nil:
		rs = Inline(ds.Rows)
	case ds.File != "":
		rs, err = l.loadFile(ds.File)
	case ds.Query != "":
		rs, err = Query(ctx, ds.Driver, ds.DSN, ds.Query)
	default:
		err = fmt.Errorf("no rows, file or query")
	}
	if err == nil {
		err = NormalizeDates(rs, ds.Dates)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.ID, err)
	}
	slog.Debug("loaded dataset", "id", ds.ID, "records", len(rs))
	return rs, nil
}

// Inline converts literal rows into a recordset.
func Inline(rows []map[string]any) dataset.Recordset {
	rs := make(dataset.Recordset, len(rows))
	for i, row := range rows {
		r := make(dataset.Record, len(row))
		for k, v := range row {
			r[k] = v
		}
		rs[i] = r
	}
	return rs
}

func (l *Loader) loadFile(name string) (dataset.Recordset, error) {
	path := name
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(data, ',')
	case ".tsv":
		return ParseCSV(data, '\t')
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ParseCSV reads delimited text whose first row is the header. Cells that
// parse as numbers become float64 values.
func ParseCSV(data []byte, comma rune) (dataset.Recordset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return dataset.Recordset{}, nil
	}
	header := rows[0]
	rs := make(dataset.Recordset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(dataset.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = cell(row[i])
			}
		}
		rs = append(rs, rec)
	}
	return rs, nil
}

// cell converts numeric text to float64. "NaN" and "Inf" stay strings since
// JSON has no encoding for them.
func cell(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// ParseJSON reads a JSON array of objects.
func ParseJSON(data []byte) (dataset.Recordset, error) {
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return Inline(rows), nil
}

// NormalizeDates rewrites the given columns of rs as ISO 8601 strings:
// "2006-01-02" for dates without a time of day, RFC 3339 otherwise. Empty
// and missing cells are left alone.
func NormalizeDates(rs dataset.Recordset, cols []string) error {
	for _, col := range cols {
		for i, rec := range rs {
			v, ok := rec[col]
			if !ok || v == nil {
				continue
			}
			var t time.Time
			switch x := v.(type) {
			case time.Time:
				t = x
			case string:
				if x == "" {
					continue
				}
				parsed, err := dateparse.ParseIn(x, time.UTC)
				if err != nil {
					return fmt.Errorf("column %s row %d: %w", col, i+1, err)
				}
				t = parsed
			default:
				return fmt.Errorf("column %s row %d: %v is not a date", col, i+1, v)
			}
			rec[col] = isoDate(t)
		}
	}
	return nil
}

func isoDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// Query runs query against the database identified by driver and dsn and
// returns one record per row.
func Query(ctx context.Context, driver, dsn, query string) (dataset.Recordset, error) {
	if driver == "pgx" {
		return queryPgx(ctx, dsn, query)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %s", driver, redact.String(err.Error()))
	}
	defer db.Close() //nolint:errcheck // read-only connection

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s database: %s", driver, redact.String(err.Error()))
	}
	defer rows.Close() //nolint:errcheck // read-only query

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	rs := dataset.Recordset{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(dataset.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = vals[i]
			}
		}
		rs = append(rs, rec)
	}
	return rs, rows.Err()
}

// queryPgx runs query over a native pgx connection.
func queryPgx(ctx context.Context, dsn, query string) (dataset.Recordset, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %s", redact.String(err.Error()))
	}
	defer conn.Close(ctx) //nolint:errcheck // read-only connection

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying postgres: %s", redact.String(err.Error()))
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("reading postgres rows: %w", err)
	}
	rs := make(dataset.Recordset, len(maps))
	for i, m := range maps {
		rs[i] = dataset.Record(m)
	}
	return rs, nil
}
