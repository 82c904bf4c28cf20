package schema

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownFormat is returned for files whose extension names no schema format
	ErrUnknownFormat = errors.New("unknown schema file format")

	// ErrInvalidSchema marks documents that are not structurally well formed
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnsupportedVersion is returned when a document declares a format version
	// this tool cannot read
	ErrUnsupportedVersion = errors.New("unsupported schema format version")
)

const typeHint = "type expressions look like int32, string, Expr, P<Expr>, UP<Expr>, SP<Expr>, list<T> or map<K,V>"

// invalid marks err as ErrInvalidSchema so callers can test for it with errors.Is
func invalid(err error) error {
	return errors.Mark(err, ErrInvalidSchema)
}
