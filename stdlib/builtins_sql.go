package stdlib

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cortesi/exprlang/interp"
)

// sqlDB is the opaque handle sqlOpen hands back and the other sql*
// functions expect as their first argument. It carries no exprlang-visible
// fields; every query result is expressed directly as the map/array values
// the interpreter already knows how to index and member-access.
type sqlDB struct {
	conn *sql.DB
}

// sqlFunctions registers a small modernc.org/sqlite-backed query surface:
// open a connection, run parameterized SELECT/INSERT/UPDATE/DELETE
// statements, and close it. Rows come back as []any of map[string]any so
// `rows[0].name` and `rows[0]["name"]` both work through the interpreter's
// existing MemberAccess/Index evaluation for maps, with no dedicated
// object-view type needed.
func sqlFunctions() []interp.Function {
	return []interp.Function{
		&interp.NamedFunction{
			FuncName: "sqlOpen",
			ArgNames: []string{"dsn"},
			Fn:       builtinSQLOpen,
		},
		&interp.NamedFunction{
			FuncName: "sqlClose",
			ArgNames: []string{"db"},
			Fn:       builtinSQLClose,
		},
		&interp.NamedFunction{
			FuncName: "query",
			ArgNames: nil, // variadic: db, sql, then positional bind parameters
			Fn:       builtinQuery,
		},
		&interp.NamedFunction{
			FuncName: "exec",
			ArgNames: nil, // variadic: db, sql, then positional bind parameters
			Fn:       builtinExec,
		},
	}
}

func builtinSQLOpen(args []any) (any, error) {
	dsn, ok := args[0].(string)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "sqlOpen() expects a string DSN"}
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "sqlOpen(): " + err.Error()}
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "sqlOpen(): " + err.Error()}
	}
	return &sqlDB{conn: conn}, nil
}

func builtinSQLClose(args []any) (any, error) {
	db, ok := args[0].(*sqlDB)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "sqlClose() expects a value returned by sqlOpen()"}
	}
	return nil, db.conn.Close()
}

func builtinQuery(args []any) (any, error) {
	if len(args) < 2 {
		return nil, &interp.InvocationError{ArgIndex: -1, Message: "query() expects at least 2 arguments (db, sql, ...params)"}
	}
	db, ok := args[0].(*sqlDB)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "query() expects a value returned by sqlOpen() as its first argument"}
	}
	stmt, ok := args[1].(string)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "query() expects a string as its second argument"}
	}

	rows, err := db.conn.Query(stmt, args[2:]...)
	if err != nil {
		return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "query(): " + err.Error()}
	}
	defer rows.Close()

	results, err := rowsToMaps(rows)
	if err != nil {
		return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "query(): " + err.Error()}
	}
	return results, nil
}

func builtinExec(args []any) (any, error) {
	if len(args) < 2 {
		return nil, &interp.InvocationError{ArgIndex: -1, Message: "exec() expects at least 2 arguments (db, sql, ...params)"}
	}
	db, ok := args[0].(*sqlDB)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 0, ArgValue: args[0], Message: "exec() expects a value returned by sqlOpen() as its first argument"}
	}
	stmt, ok := args[1].(string)
	if !ok {
		return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "exec() expects a string as its second argument"}
	}

	result, err := db.conn.Exec(stmt, args[2:]...)
	if err != nil {
		return nil, &interp.InvocationError{ArgIndex: 1, ArgValue: args[1], Message: "exec(): " + err.Error()}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("exec(): %w", err)
	}
	return affected, nil
}

func rowsToMaps(rows *sql.Rows) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = sqlColumnToValue(values[i])
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// sqlColumnToValue normalizes a database/sql scan result to the primitive
// shapes value.Default already knows how to coerce.
func sqlColumnToValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int64, float64, string, bool, nil:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
