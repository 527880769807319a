package e2e_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sagarc03/selcdn/swifttest"
)

const (
	testLogin    = "user"
	testPassword = "secret"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "selcdn-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// buildBinary compiles the selcdn binary once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "selcdn")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/selcdn")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
			return
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot returns the directory holding go.mod.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startServer starts an in-process storage emulator with one account.
func startServer(t *testing.T) *swifttest.Server {
	t.Helper()

	srv := swifttest.NewServer(swifttest.Config{
		Users: map[string]string{testLogin: testPassword},
	})
	t.Cleanup(srv.Close)
	return srv
}

// cliResult is the captured outcome of one CLI invocation.
type cliResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runCLI runs the binary against srv with credentials passed through the
// environment. The profile file points at an empty temp location so the
// developer's own profiles never leak in.
func runCLI(t *testing.T, srv *swifttest.Server, args ...string) cliResult {
	t.Helper()

	cmd := exec.Command(buildBinary(t), args...)
	cmd.Env = append(os.Environ(),
		"SELCDN_AUTH_URL="+srv.AuthURL(),
		"SELCDN_AUTH_LOGIN="+testLogin,
		"SELCDN_AUTH_PASSWORD="+testPassword,
		"SELCDN_LOG_LEVEL=error",
		"SELCDN_CONFIG="+filepath.Join(t.TempDir(), "config.yaml"),
		"SELCDN_PROFILE=",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := cliResult{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		require.NoError(t, err, "run %v", args)
	}

	return result
}

// writeFile creates a file under dir, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// readFile returns the contents of path.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "read %s", path)
	return string(data)
}

func objectWithData(name, data string) swifttest.Object {
	return swifttest.Object{Name: name, Data: []byte(data)}
}

func directoryMarker(name string) swifttest.Object {
	return swifttest.Object{Name: name, ContentType: swifttest.DirectoryContentType}
}
