// catalog-service/internal/store/sqlite_functions.go
package store

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// sqliteLowerFunc folds case with Go's Unicode tables. SQLite's built-in
// LOWER only folds ASCII.
const sqliteLowerFunc = "catalog_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(sqliteLowerFunc, 1, sqliteLower); err != nil {
		panic(fmt.Sprintf("register sqlite function %s: %v", sqliteLowerFunc, err))
	}
}

func sqliteLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", sqliteLowerFunc, v)
	}
}

// lowerFunc names the case-folding SQL function for driverName.
func lowerFunc(driverName string) string {
	if driverName == "sqlite" {
		return sqliteLowerFunc
	}
	return "LOWER"
}
