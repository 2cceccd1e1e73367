package database

import (
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Dialect hides the differences between the two supported engines.
type Dialect struct {
	Driver string
}

// Fold wraps a column expression so that comparisons ignore letter case.
// SQLite LIKE only folds ASCII, so the sqlite side uses the registered
// fold() function.
func (d Dialect) Fold(expr string) string {
	if d.Driver == DriverPostgres {
		return "LOWER(" + expr + ")"
	}
	return "fold(" + expr + ")"
}

// Contains builds a case-insensitive substring predicate matching the named
// parameter against any of the columns.
func (d Dialect) Contains(param string, columns ...string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, d.Fold(col)+" LIKE "+d.Fold(":"+param)+` ESCAPE '\'`)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a raw search term into a %term% pattern with LIKE
// wildcards escaped.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
