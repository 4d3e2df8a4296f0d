package executor

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/flowforge/engine/pkg/security"
	"github.com/flowforge/engine/pkg/state"
	"github.com/flowforge/engine/pkg/template"
	"github.com/flowforge/engine/pkg/types"
)

// DatabaseExecutor runs a query against an embedded file-backed SQLite
// database confined to the database node's safe directory:
// { operation, query, params, database }. The query is split on ';' into
// statements, each consuming its own positional '?' parameters in order.
type DatabaseExecutor struct{}

func (e *DatabaseExecutor) NodeType() types.NodeType { return types.NodeTypeDatabase }

func (e *DatabaseExecutor) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	inputMap, _ := types.AsMap(input)

	query, _ := types.GetString(node.Config, "query")
	if query == "" {
		return types.Failure(fmt.Errorf("%w: database node requires a query", ErrSQLFailed), "", 0)
	}
	query = template.Substitute(query, inputMap)

	dbName := types.GetStringDefault(node.Config, "database", "workflow")

	safeFS, err := security.NewSafeFS(ctx.Config().SafeDatabaseDir)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrSQLFailed, err), "", 0)
	}
	dbFile := filepath.Join(safeFS.Root(), safeFS.Resolve(dbName+".db"))

	rawParams, _ := types.GetSlice(node.Config, "params")
	params := make([]interface{}, len(rawParams))
	for i, p := range rawParams {
		params[i] = resolveParam(p, inputMap)
	}

	if requiresVectorExtension(query) {
		if err := state.LoadVectorExtension(); err != nil {
			return types.Failure(fmt.Errorf("%w: %v", ErrSQLFailed, err), "", 0)
		}
		for i, p := range params {
			params[i] = coerceVectorParam(p)
		}
	}

	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrSQLFailed, err), "", 0)
	}
	defer db.Close()

	statements := splitStatements(query)
	paramOffset := 0
	var rowsOut []interface{}
	var rowsAffected int64

	for _, stmt := range statements {
		placeholderCount := strings.Count(stmt, "?")
		stmtParams := params[paramOffset:min(paramOffset+placeholderCount, len(params))]
		paramOffset += placeholderCount

		upper := strings.ToUpper(strings.TrimSpace(stmt))
		if strings.HasPrefix(upper, "SELECT") {
			rows, err := db.Query(stmt, stmtParams...)
			if err != nil {
				return types.Failure(fmt.Errorf("%w: %v", ErrSQLFailed, err), "", 0)
			}
			result, err := scanRows(rows)
			rows.Close()
			if err != nil {
				return types.Failure(fmt.Errorf("%w: %v", ErrSQLFailed, err), "", 0)
			}
			rowsOut = append(rowsOut, result...)
		} else {
			res, err := db.Exec(stmt, stmtParams...)
			if err != nil {
				return types.Failure(fmt.Errorf("%w: %v", ErrSQLFailed, err), "", 0)
			}
			if n, err := res.RowsAffected(); err == nil {
				rowsAffected += n
			}
		}
	}

	return types.Success(map[string]interface{}{
		"rows":          rowsOut,
		"rows_affected": rowsAffected,
		"database":      dbName,
	}, 0)
}

// resolveParam resolves a "{key}" parameter literal from the input
// mapping; any other value (including a non-placeholder string) passes
// through unchanged.
func resolveParam(p interface{}, input map[string]interface{}) interface{} {
	s, ok := p.(string)
	if !ok || !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return p
	}
	key := s[1 : len(s)-1]
	if v, ok := input[key]; ok {
		return v
	}
	return p
}

// splitStatements splits a query on ';', dropping empty statements left by
// a trailing separator.
func splitStatements(query string) []string {
	parts := strings.Split(query, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// requiresVectorExtension reports whether query exercises a vector-search
// virtual table, by MATCH syntax or by common vec0 table naming.
func requiresVectorExtension(query string) bool {
	upper := strings.ToUpper(query)
	return strings.Contains(upper, "MATCH") || strings.Contains(upper, "VEC0") || strings.Contains(strings.ToLower(query), "_vec")
}

// coerceVectorParam renders a []byte or base64-encoded string parameter as
// the JSON array literal string the vector extension binds natively.
func coerceVectorParam(p interface{}) interface{} {
	switch v := p.(type) {
	case []byte:
		return bytesToJSONArray(v)
	case string:
		if decoded, err := base64.StdEncoding.DecodeString(v); err == nil {
			return bytesToJSONArray(decoded)
		}
		return v
	default:
		return p
	}
}

func bytesToJSONArray(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	sb.WriteByte(']')
	return sb.String()
}

func scanRows(rows *sql.Rows) ([]interface{}, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
