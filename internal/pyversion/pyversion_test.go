package pyversion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustVersion(t *testing.T, raw string) Version {
	t.Helper()

	v, err := ParseVersion(raw)
	require.NoError(t, err)

	return v
}

func mustRequirement(t *testing.T, raw string) Requirement {
	t.Helper()

	r, err := ParseRequirement(raw)
	require.NoError(t, err)

	return r
}

// TestAllows covers the requires_python shapes used by Python projects.
func TestAllows(t *testing.T) {
	t.Parallel()

	cases := []struct {
		requirement string
		allowed     []string
		rejected    []string
	}{
		{">=3.9.0", []string{"3.9", "3.9.0", "3.10.4"}, []string{"3.8.18", "2.7"}},
		{">=3.8, <4", []string{"3.8", "3.12"}, []string{"3.7.9", "4.0"}},
		{"~=3.9", []string{"3.9", "3.9.18", "3.12.1"}, []string{"3.8.10", "4.0"}},
		{"==3.9.*", []string{"3.9", "3.9.18"}, []string{"3.10.0", "3.8.18"}},
		{">=3.9.0rc1", []string{"3.9.0rc1", "3.9.0", "3.11.2"}, []string{"3.9.0b4", "3.8.18"}},
		{">3.9", []string{"3.9.1", "3.10"}, []string{"3.9", "3.9.0"}},
		{"!=3.10.*, >=3.9", []string{"3.9.2", "3.11"}, []string{"3.10.4"}},
		{"", []string{"2.7", "3.12"}, nil},
	}

	for _, tc := range cases {
		r := mustRequirement(t, tc.requirement)
		require.Equal(t, tc.requirement, r.String())

		for _, raw := range tc.allowed {
			require.True(t, r.Allows(mustVersion(t, raw)), "%s should allow %s", tc.requirement, raw)
		}

		for _, raw := range tc.rejected {
			require.False(t, r.Allows(mustVersion(t, raw)), "%s should reject %s", tc.requirement, raw)
		}
	}

	require.False(t, mustRequirement(t, ">=3.9").Allows(Version{}))
}

// TestAllowsSeries checks classifier series against requirements.
func TestAllowsSeries(t *testing.T) {
	t.Parallel()

	cases := map[string]map[string]bool{
		">=3.9.5":     {"3.9": true, "3.8": false, "3": true, "3.10": true, "2": false},
		"~=3.9":       {"3.8": false, "3.9": true, "3.12": true, "4": false},
		"==3.9.*":     {"3": true, "3.9": true, "3.10": false},
		">3.9":        {"3.9": true, "3.8": false},
		"<3.9":        {"3.9": false, "3.8": true, "3": true},
		">=3.9.0rc1":  {"3.9": true, "3.8": false},
		">=3.9, <3.9": {"3.9": false, "3": false},
	}

	for raw, series := range cases {
		r := mustRequirement(t, raw)

		for s, want := range series {
			require.Equal(t, want, r.AllowsSeries(mustVersion(t, s)), "%s vs series %s", raw, s)
		}
	}
}

// TestNormalize rewrites alternative spellings into the canonical form.
func TestNormalize(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]string{
		"1.0-rc1":   "1.0rc1",
		"1.0.RC1":   "1.0rc1",
		"v1.4":      "1.4",
		"2.0-post1": "2.0.post1",
		"1.2.3":     "1.2.3",
	} {
		got, err := Normalize(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}
}

// TestParsePublicVersion rejects local version labels.
func TestParsePublicVersion(t *testing.T) {
	t.Parallel()

	_, err := ParsePublicVersion("1.2.3+ubuntu1")
	require.ErrorIs(t, err, ErrLocalVersion)

	v, err := ParsePublicVersion("1!2.0")
	require.NoError(t, err)
	require.Equal(t, []int{2, 0}, v.Release())
}

// TestParseErrors rejects malformed input.
func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"three", "", "1..2"} {
		_, err := ParseVersion(raw)
		require.Error(t, err, raw)
	}

	for _, raw := range []string{">=three", "~=3", "===3.9", "=>3.9"} {
		_, err := ParseRequirement(raw)
		require.Error(t, err, raw)
	}
}
