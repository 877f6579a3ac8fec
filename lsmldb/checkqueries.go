package lsmldb

import (
	"fmt"

	"github.com/shua5115/lsml/document"
	"github.com/shua5115/lsml/intern"

	pgquery "github.com/pganalyze/pg_query_go/v2"
)

// QueryError pairs a failed syntax check with the 1-D index of the
// array element it came from.
type QueryError struct {
	Index int
	Err   error
}

func (e QueryError) Error() string {
	return fmt.Sprintf("query %d: %s", e.Index, e.Err)
}

// CheckQueries walks the named array section with document.IterateArray
// and syntax-checks every element as a Postgres statement via
// pg_query_go's Parse, only when spec.Type is "postgres" — this is a
// narrow syntax-only demonstration consumer of the core iterate API, not
// a general SQL linter, and never writes back into doc.
func CheckQueries(doc *document.Document, sec *document.Section, spec ConnSpec) []QueryError {
	if spec.Type != "postgres" {
		return nil
	}

	var errs []QueryError
	doc.IterateArray(sec, func(index int, v *intern.String) bool {
		if _, err := pgquery.Parse(v.String()); err != nil {
			errs = append(errs, QueryError{Index: index, Err: err})
		}
		return true
	})
	return errs
}
