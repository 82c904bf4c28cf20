package schema

import (
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

// SupportedFormats is the range of document format versions this tool reads
const SupportedFormats = ">= 1.0, < 2.0"

var supported = mustConstraint(SupportedFormats)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// CheckFormat verifies a document's declared format version. An empty format is
// accepted as the current one.
func CheckFormat(format string) error {
	if format == "" {
		return nil
	}

	v, err := semver.NewVersion(format)
	if err != nil {
		return errors.WithHint(
			errors.Mark(errors.Wrapf(err, "format %q", format), ErrUnsupportedVersion),
			"format is a version number such as \"1.0\"")
	}
	if !supported.Check(v) {
		return errors.WithHintf(
			errors.Wrapf(ErrUnsupportedVersion, "format %s", v),
			"supported formats: %s", SupportedFormats)
	}
	return nil
}
