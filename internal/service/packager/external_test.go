package packager

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/distpack/internal/domain/descriptor"
)

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
}

func sampleDescriptor() *descriptor.PackageDescriptor {
	return descriptor.New(descriptor.Fields{
		Name:       "esneft_tools",
		Version:    "1.2.3",
		Packages:   []string{"esneft_tools"},
		PackageDir: map[string]string{"": "src"},
	})
}

// TestCommandBackendArtifacts runs a command that writes into $DISTPACK_OUTDIR.
func TestCommandBackendArtifacts(t *testing.T) {
	t.Parallel()
	requireShell(t)

	backend, err := NewCommandBackend(t.TempDir(), []string{
		"sh", "-c",
		`grep -q "version: 1.2.3" "$DISTPACK_DESCRIPTOR" && printf x > "$DISTPACK_OUTDIR/${DISTPACK_NAME}-${DISTPACK_VERSION}.whl"`,
	})
	require.NoError(t, err)

	out := t.TempDir()

	result, err := backend.Package(context.Background(), sampleDescriptor(), nil, out)
	require.NoError(t, err)
	require.Equal(t, StatusOK, result.Status)
	require.Equal(t, []string{filepath.Join(out, "esneft_tools-1.2.3.whl")}, result.Artifacts)
}

// TestCommandBackendRelaysExitStatus returns the child's exit code without an error.
func TestCommandBackendRelaysExitStatus(t *testing.T) {
	t.Parallel()
	requireShell(t)

	backend, err := NewCommandBackend(t.TempDir(), []string{"sh", "-c", "exit 3"})
	require.NoError(t, err)

	result, err := backend.Package(context.Background(), sampleDescriptor(), nil, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, ExitStatus(3), result.Status)
}

// TestCommandBackendMissingProgram reports a start failure as an error.
func TestCommandBackendMissingProgram(t *testing.T) {
	t.Parallel()

	backend, err := NewCommandBackend(t.TempDir(), []string{"distpack-no-such-program"})
	require.NoError(t, err)

	result, err := backend.Package(context.Background(), sampleDescriptor(), nil, t.TempDir())
	require.Error(t, err)
	require.Equal(t, StatusFailure, result.Status)

	_, err = NewCommandBackend(os.TempDir(), nil)
	require.ErrorIs(t, err, errEmptyCommand)
}
