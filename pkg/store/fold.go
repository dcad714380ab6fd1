package store

import (
	"database/sql/driver"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// foldFunc is the SQL name of the Unicode case folding function. SQLite's own
// LOWER and LIKE only fold ASCII letters.
const foldFunc = "dpr_fold"

// folder is stateless and shared by every connection.
var folder = cases.Fold()

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldValue)
}

// Fold returns the Unicode case folding of s, as used on both sides of the search
// comparison.
func Fold(s string) string {
	return folder.String(s)
}

func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		return v, nil
	}
}
