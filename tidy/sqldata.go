package tidy

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// friendly names for the drivers a binary links in
var sqlDrivers = map[string]string{
	"Firebird SQL": "firebirdsql",
	"MariaDB":      "mysql",
	"MySQL":        "mysql",
	"Oracle":       "oracle",
	"Postgres":     "postgres",
	"SQL Server":   "sqlserver",
	"SQLite":       "sqlite",
}

// DriverName maps a friendly name to a database/sql driver name,
// passing through names it does not know.
func DriverName(driver string) string {
	if d, ok := sqlDrivers[driver]; ok {
		return d
	}
	return driver
}

func GetSortedDrivers() []string {
	dr := []string{}
	for k := range sqlDrivers {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

// OpenData opens and pings a database.
func OpenData(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName(driver), dsn)
	if err != nil {
		return nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// QueryData runs query and returns its result column-wise: a named
// list with one unnamed list per column. That is the shape EvalTidy
// overlays, so column names read as variables.
func QueryData(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*SexpList, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return RowsToData(rows)
}

// RowsToData drains rows into columns. It does not close rows.
func RowsToData(rows *sql.Rows) (*SexpList, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columns := make([]*SexpList, len(cols))
	for i := range columns {
		columns[i] = MakeList()
	}
	raw := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range raw {
			columns[i] = columns[i].Append("", sqlValueToSexp(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	vals := make([]Sexp, len(cols))
	for i := range columns {
		vals[i] = columns[i]
	}
	return MakeNamedList(cols, vals), nil
}

// Records turns column-wise data into a list of rows, each a named list.
func Records(data *SexpList) (*SexpList, error) {
	entries := data.Entries()
	if len(entries) == 0 {
		return MakeList(), nil
	}
	nrow := -1
	for _, e := range entries {
		col, ok := e.Val.(*SexpList)
		if !ok {
			return nil, fmt.Errorf("records: column `%s` is a %s, not a list", e.Name, TypeName(e.Val))
		}
		if nrow >= 0 && col.Len() != nrow {
			return nil, fmt.Errorf("records: column `%s` has %d rows, expected %d", e.Name, col.Len(), nrow)
		}
		nrow = col.Len()
	}
	names := data.Names()
	rows := make([]Sexp, nrow)
	for r := 0; r < nrow; r++ {
		vals := make([]Sexp, len(entries))
		for c, e := range entries {
			vals[c] = e.Val.(*SexpList).At(r).Val
		}
		rows[r] = MakeNamedList(names, vals)
	}
	return MakeList(rows...), nil
}

func sqlValueToSexp(v interface{}) Sexp {
	switch t := v.(type) {
	case nil:
		return SexpNull
	case int64:
		return &SexpInt{Val: t}
	case int32:
		return &SexpInt{Val: int64(t)}
	case int:
		return &SexpInt{Val: int64(t)}
	case float64:
		return &SexpFloat{Val: t}
	case float32:
		return &SexpFloat{Val: float64(t)}
	case bool:
		return &SexpBool{Val: t}
	case string:
		return &SexpStr{S: t}
	case []byte:
		return &SexpStr{S: string(t)}
	case time.Time:
		return &SexpStr{S: t.Format(time.RFC3339Nano)}
	}
	return &SexpStr{S: fmt.Sprintf("%v", v)}
}

func sexpToSqlArg(x Sexp) (interface{}, error) {
	switch t := x.(type) {
	case *SexpInt:
		return t.Val, nil
	case *SexpFloat:
		return t.Val, nil
	case *SexpStr:
		return t.S, nil
	case *SexpBool:
		return t.Val, nil
	case *SexpRaw:
		return t.Val, nil
	case *SexpSentinel:
		return nil, nil
	}
	return nil, fmt.Errorf("cannot pass %s as a query parameter", TypeName(x))
}

// SqlData is an open database as a value.
type SqlData struct {
	DB     *sql.DB
	Driver string
}

func (s *SqlData) SexpString(ps *PrintState) string {
	return fmt.Sprintf("<database %s>", s.Driver)
}

// SqlFunction implements (sql_open driver dsn), (sql_query db query args...)
// and (sql_records data).
func SqlFunction(h Host, name string, args []Sexp) (Sexp, error) {
	ctx := context.Background()
	switch name {
	case "sql_open":
		if len(args) != 2 {
			return SexpNull, WrongNargs
		}
		driver, ok1 := args[0].(*SexpStr)
		dsn, ok2 := args[1].(*SexpStr)
		if !ok1 || !ok2 {
			return SexpNull, fmt.Errorf("%s expects two strings", name)
		}
		db, err := OpenData(ctx, driver.S, dsn.S)
		if err != nil {
			return SexpNull, err
		}
		return &SqlData{DB: db, Driver: DriverName(driver.S)}, nil
	case "sql_query", "sql_exec":
		if len(args) < 2 {
			return SexpNull, WrongNargs
		}
		db, ok := args[0].(*SqlData)
		if !ok {
			return SexpNull, fmt.Errorf("%s: first argument must be a database, got %s", name, TypeName(args[0]))
		}
		q, ok := args[1].(*SexpStr)
		if !ok {
			return SexpNull, fmt.Errorf("%s: query must be a string", name)
		}
		qargs := make([]interface{}, 0, len(args)-2)
		for _, a := range args[2:] {
			g, err := sexpToSqlArg(a)
			if err != nil {
				return SexpNull, err
			}
			qargs = append(qargs, g)
		}
		if name == "sql_exec" {
			res, err := db.DB.ExecContext(ctx, q.S, qargs...)
			if err != nil {
				return SexpNull, err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return SexpNull, nil
			}
			return &SexpInt{Val: n}, nil
		}
		return QueryData(ctx, db.DB, q.S, qargs...)
	case "sql_records":
		if len(args) != 1 {
			return SexpNull, WrongNargs
		}
		data, ok := args[0].(*SexpList)
		if !ok {
			return SexpNull, fmt.Errorf("%s: expected a list, got %s", name, TypeName(args[0]))
		}
		return Records(data)
	}
	return SexpNull, fmt.Errorf("unrecognized function name: '%s'", name)
}
