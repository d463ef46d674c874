package pyversion

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/datawire/ocibuild/pkg/python/pep345"
	"github.com/datawire/ocibuild/pkg/python/pep440"
)

// ErrLocalVersion is returned by ParsePublicVersion for "+local" versions.
var ErrLocalVersion = errors.New("local version label not allowed")

// Version is a parsed PEP 440 version.
type Version struct {
	v *pep440.Version
}

// ParseVersion parses raw as a PEP 440 version, normalizing alternative spellings.
func ParseVersion(raw string) (Version, error) {
	v, err := pep440.ParseVersion(strings.TrimSpace(raw))
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", raw, err)
	}

	return Version{v: v}, nil
}

// ParsePublicVersion is ParseVersion that also rejects local version labels.
func ParsePublicVersion(raw string) (Version, error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return Version{}, err
	}

	if len(v.v.Local) > 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrLocalVersion, raw)
	}

	return v, nil
}

// Normalize returns the canonical spelling of raw ("1.0-RC1" becomes "1.0rc1").
func Normalize(raw string) (string, error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return "", err
	}

	return v.String(), nil
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}

	return v.v.String()
}

// Release returns the numeric release segments.
func (v Version) Release() []int {
	if v.v == nil {
		return nil
	}

	return slices.Clone(v.v.Release)
}

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool {
	return v.v == nil
}

type matcher interface {
	Match(ver pep440.Version) bool
}

// Requirement is a parsed requires_python specifier. The zero value and the
// empty specifier allow every version.
type Requirement struct {
	clauses []matcher
	// bounds holds the release segments named by each clause.
	bounds [][]int
	raw    string
}

// ParseRequirement parses a comma-separated specifier such as ">=3.9, <4".
func ParseRequirement(raw string) (Requirement, error) {
	req := Requirement{raw: strings.TrimSpace(raw)}

	for clause := range strings.SplitSeq(req.raw, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		m, bound, err := parseClause(clause)
		if err != nil {
			return Requirement{}, fmt.Errorf("parse requirement %q: %w", raw, err)
		}

		req.clauses = append(req.clauses, m)
		req.bounds = append(req.bounds, bound)
	}

	return req, nil
}

func parseClause(clause string) (matcher, []int, error) {
	for _, op := range []string{"~=", "==", "!=", "<=", ">="} {
		if !strings.HasPrefix(clause, op) {
			continue
		}

		spec, err := pep440.ParseSpecifier(clause)
		if err != nil {
			return nil, nil, err
		}

		return spec, slices.Clone(spec[0].Version.Release), nil
	}

	// The pinned pep440 parser drops one byte too many after "<" and ">".
	spec, err := pep345.ParseVersionSpecifier(clause)
	if err != nil {
		return nil, nil, err
	}

	return spec, slices.Clone(spec[0].Version.Release), nil
}

func (r Requirement) String() string {
	return r.raw
}

// IsEmpty reports whether r has no clauses.
func (r Requirement) IsEmpty() bool {
	return len(r.clauses) == 0
}

// Allows reports whether v satisfies every clause of r.
func (r Requirement) Allows(v Version) bool {
	if v.v == nil {
		return false
	}

	for _, clause := range r.clauses {
		if !clause.Match(*v.v) {
			return false
		}
	}

	return true
}

// AllowsSeries reports whether some final release of the series named by
// series ("3" or "3.9") satisfies r. ">=3.9.5" allows the 3.9 series even
// though 3.9.0 is excluded.
//
// Specifier clauses only change their answer at the versions they name, so
// it is enough to try the start of the series plus every named bound inside
// the series and its immediate successor.
func (r Requirement) AllowsSeries(series Version) bool {
	prefix := series.Release()
	if len(prefix) == 0 {
		return false
	}

	candidates := [][]int{prefix}

	for _, bound := range r.bounds {
		if !hasPrefix(bound, prefix) {
			continue
		}

		next := make([]int, max(len(bound), len(prefix)+1))
		copy(next, bound)
		next[len(next)-1]++

		candidates = append(candidates, bound, next)
	}

	for _, release := range candidates {
		v, err := ParseVersion(joinRelease(release))
		if err == nil && r.Allows(v) {
			return true
		}
	}

	return false
}

// hasPrefix compares release segments, reading missing trailing segments as zero.
func hasPrefix(release, prefix []int) bool {
	for i, want := range prefix {
		got := 0
		if i < len(release) {
			got = release[i]
		}

		if got != want {
			return false
		}
	}

	return true
}

func joinRelease(release []int) string {
	parts := make([]string, len(release))
	for i, n := range release {
		parts[i] = strconv.Itoa(n)
	}

	return strings.Join(parts, ".")
}
