package e2e_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/selcdn"
	"github.com/sagarc03/selcdn/clientcli"
)

func decode[T any](t *testing.T, res cliResult) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &v), "stdout: %s\nstderr: %s", res.Stdout, res.Stderr)
	return v
}

func TestE2E_ObjectLifecycle(t *testing.T) {
	srv := startServer(t)
	srv.CreateContainer("images")
	dir := t.TempDir()
	cat := writeFile(t, dir, "cat.html", "<p>meow</p>")

	t.Run("info reports the account", func(t *testing.T) {
		res := runCLI(t, srv, "info", "--json")
		require.Equal(t, 0, res.ExitCode, res.Stderr)

		info := decode[selcdn.StorageInfo](t, res)
		assert.Equal(t, int64(1), info.ContainersCount)
		assert.Equal(t, int64(0), info.ObjectsCount)
	})

	t.Run("upload stores the file under a folder", func(t *testing.T) {
		res := runCLI(t, srv, "upload", "images", cat, "pets/cat.html", "--json")
		require.Equal(t, 0, res.ExitCode, res.Stderr)

		results := decode[[]clientcli.UploadResult](t, res)
		require.Len(t, results, 1)
		assert.Equal(t, "pets/cat.html", results[0].RemotePath)

		obj, err := srv.Store().Get("images", "pets/cat.html")
		require.NoError(t, err)
		assert.Equal(t, "<p>meow</p>", string(obj.Data))
		assert.Contains(t, obj.ContentType, "text/html")
	})

	t.Run("ls lists the folder", func(t *testing.T) {
		res := runCLI(t, srv, "ls", "images", "pets", "--json")
		require.Equal(t, 0, res.ExitCode, res.Stderr)

		list := decode[clientcli.ListResult](t, res)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "pets/cat.html", list.Items[0].Name)
		assert.Equal(t, int64(len("<p>meow</p>")), list.Items[0].Bytes)
	})

	t.Run("exists exits 0 for a present object", func(t *testing.T) {
		res := runCLI(t, srv, "exists", "images", "pets/cat.html", "--json")
		assert.Equal(t, 0, res.ExitCode, res.Stderr)
		assert.True(t, decode[clientcli.ExistsResult](t, res).Exists)
	})

	t.Run("rm deletes the object", func(t *testing.T) {
		res := runCLI(t, srv, "rm", "images", "pets/cat.html", "--json")
		require.Equal(t, 0, res.ExitCode, res.Stderr)

		_, err := srv.Store().Get("images", "pets/cat.html")
		assert.Error(t, err)
	})

	t.Run("exists exits 1 for a missing object", func(t *testing.T) {
		res := runCLI(t, srv, "exists", "-q", "images", "pets/cat.html")
		assert.Equal(t, 1, res.ExitCode)
	})
}

func TestE2E_UploadToMissingContainer(t *testing.T) {
	srv := startServer(t)
	file := writeFile(t, t.TempDir(), "a.html", "a")

	res := runCLI(t, srv, "upload", "nope", file)
	assert.Equal(t, 1, res.ExitCode)
}

func TestE2E_RecursiveDelete(t *testing.T) {
	srv := startServer(t)
	srv.CreateContainer("site")
	store := srv.Store()

	for _, name := range []string{"docs/a.html", "docs/api/b.html", "keep.html"} {
		_, err := store.Put("site", objectWithData(name, "x"))
		require.NoError(t, err)
	}
	for _, name := range []string{"docs", "docs/api"} {
		_, err := store.Put("site", directoryMarker(name))
		require.NoError(t, err)
	}

	res := runCLI(t, srv, "rm", "-r", "site", "docs", "--json")
	require.Equal(t, 0, res.ExitCode, res.Stderr)

	assert.Equal(t, []string{"keep.html"}, store.Names("site"))
}

func TestE2E_UploadArchive(t *testing.T) {
	srv := startServer(t)
	srv.CreateContainer("web")

	src := t.TempDir()
	writeFile(t, src, "index.html", "<h1>home</h1>")
	writeFile(t, src, "css/site.css", "body{}")

	for _, tc := range []struct {
		name string
		args []string
	}{
		{name: "tar", args: []string{"upload-archive", src, "web", "--json"}},
		{name: "tar.gz", args: []string{"upload-archive", "--gzip", src, "web", "--json"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, srv, tc.args...)
			require.Equal(t, 0, res.ExitCode, res.Stderr)

			out := decode[clientcli.ArchiveUploadResult](t, res)
			require.NotNil(t, out.Result)
			assert.Empty(t, out.Result.Errors)
			assert.Positive(t, out.Result.FilesCreated)

			obj, err := srv.Store().Get("web", "css/site.css")
			require.NoError(t, err)
			assert.Equal(t, "body{}", string(obj.Data))
		})
	}
}

func TestE2E_BadCredentials(t *testing.T) {
	srv := startServer(t)

	res := runCLI(t, srv, "info", "--password", "wrong", "--json")
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "error")
}

func TestE2E_MetricsFile(t *testing.T) {
	srv := startServer(t)
	srv.CreateContainer("images")
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	res := runCLI(t, srv, "containers", "--metrics-file", metrics, "--json")
	require.Equal(t, 0, res.ExitCode, res.Stderr)

	data := readFile(t, metrics)
	assert.Contains(t, data, "selcdn_")
}
