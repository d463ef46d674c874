package versionfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/oshokin/distpack/internal/pyversion"
)

var (
	// ErrSyntax is returned for a line that is neither blank, a comment nor an assignment.
	ErrSyntax = errors.New("invalid declaration")
	// ErrNotBound is returned by Lookup when none of the requested keys is bound.
	ErrNotBound = errors.New("no version binding")
	// ErrInvalidVersion is returned when the bound value is not a release version.
	ErrInvalidVersion = errors.New("invalid version")
)

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	bareValueRe  = regexp.MustCompile(`^[A-Za-z0-9._+!-]+$`)
)

// Bindings maps declared keys to their last assigned value.
type Bindings map[string]string

// Parse reads declarations from r.
func Parse(r io.Reader) (Bindings, error) {
	var (
		bindings = make(Bindings)
		scanner  = bufio.NewScanner(r)
		lineNo   int
	)

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, err := parseAssignment(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		bindings[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read declarations: %w", err)
	}

	return bindings, nil
}

// Lookup returns the value of the first key in keys that is bound.
func (b Bindings) Lookup(keys ...string) (string, error) {
	for _, key := range keys {
		if value, ok := b[key]; ok {
			return value, nil
		}
	}

	return "", fmt.Errorf("%w for %s", ErrNotBound, strings.Join(keys, ", "))
}

// ValidateVersion checks that v is a PEP 440 public version.
func ValidateVersion(v string) error {
	if _, err := pyversion.ParsePublicVersion(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVersion, err)
	}

	return nil
}

func parseAssignment(line string) (string, string, error) {
	key, rest, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: expected key = value, got %q", ErrSyntax, line)
	}

	key = strings.TrimSpace(key)
	if !identifierRe.MatchString(key) {
		return "", "", fmt.Errorf("%w: bad key %q", ErrSyntax, key)
	}

	value, err := parseValue(strings.TrimSpace(rest))
	if err != nil {
		return "", "", err
	}

	return key, value, nil
}

func parseValue(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty value", ErrSyntax)
	}

	quote := raw[0]
	if quote != '"' && quote != '\'' {
		// Bare value: stops at a trailing comment.
		value, _, _ := strings.Cut(raw, "#")
		value = strings.TrimSpace(value)

		if !bareValueRe.MatchString(value) {
			return "", fmt.Errorf("%w: unquoted value %q must be quoted", ErrSyntax, value)
		}

		return value, nil
	}

	end := strings.IndexByte(raw[1:], quote)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string %s", ErrSyntax, raw)
	}

	value := raw[1 : end+1]

	tail := strings.TrimSpace(raw[end+2:])
	if tail != "" && !strings.HasPrefix(tail, "#") {
		return "", fmt.Errorf("%w: unexpected %q after value", ErrSyntax, tail)
	}

	return value, nil
}
