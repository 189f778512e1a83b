package requirement

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/nmgraph/pkg/errors"
)

// Conforms checks version against raw using Masterminds/semver, which
// implements full semver precedence (pre-release exclusion, build metadata,
// hyphen ranges). It is used to flag bindings where the lighter grammar of
// this package and canonical semver disagree.
//
// Specifiers that carry no version constraint (git, URL and local
// references) always conform.
func Conforms(raw, version string) (bool, error) {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "npm:"); ok {
		s = aliasTarget(rest)
	}
	if s == "" || hasAnyPrefix(s, localRefPrefixes) {
		return true, nil
	}

	c, err := semver.NewConstraint(s)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeNonConformant, err, "constraint %q", s)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeNonConformant, err, "version %q", version)
	}
	return c.Check(v), nil
}
