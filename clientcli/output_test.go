package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sagarc03/selcdn"
	"github.com/sagarc03/selcdn/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &clientcli.JSONFormatter{}, clientcli.NewFormatter(true, false))
	assert.IsType(t, &clientcli.HumanFormatter{}, clientcli.NewFormatter(false, false))

	f, ok := clientcli.NewFormatter(false, true).(*clientcli.HumanFormatter)
	require.True(t, ok)
	assert.True(t, f.Quiet)
}

func TestHumanFormatter_FormatStorageInfo(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	require.NoError(t, f.FormatStorageInfo(&buf, selcdn.StorageInfo{ContainersCount: 2, ObjectsCount: 10, BytesUsed: 2048}))
	assert.Equal(t, "Containers: 2\nObjects:    10\nUsed:       2.0 KB\n", buf.String())
}

func TestHumanFormatter_FormatContainers(t *testing.T) {
	f := &clientcli.HumanFormatter{}

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatContainers(&buf, nil))
		assert.Equal(t, "No containers found\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatContainers(&buf, []selcdn.ContainerEntry{
			{Name: "images", Type: "public", Count: 3, Bytes: 1536},
		}))
		out := buf.String()
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "images")
		assert.Contains(t, out, "public")
		assert.Contains(t, out, "1.5 KB")
	})
}

func TestHumanFormatter_FormatContainer(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	require.NoError(t, f.FormatContainer(&buf, clientcli.ContainerResult{
		Name: "media",
		Info: selcdn.ContainerInfo{ObjectsCount: 1, BytesUsed: 5, Type: "public", Domains: "a.example.com,b.example.com"},
	}))

	assert.Equal(t, "Container: media\nType:      public\nObjects:   1\nUsed:      5 B\nDomains:   a.example.com, b.example.com\n", buf.String())
}

func TestHumanFormatter_FormatList(t *testing.T) {
	f := &clientcli.HumanFormatter{}

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatList(&buf, &clientcli.ListResult{Container: "c"}))
		assert.Equal(t, "No objects found\n", buf.String())
	})

	t.Run("folders and files", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatList(&buf, &clientcli.ListResult{
			Container: "c",
			Items: []selcdn.StorageEntry{
				{Name: "dir1", ContentType: selcdn.DirectoryContentType, LastModified: "2024-01-02T03:04:05.123456"},
				{Name: "a.txt", ContentType: "text/plain", Bytes: 2048, LastModified: "2024-01-02T03:04:05.000000"},
			},
		}))

		out := buf.String()
		assert.Contains(t, out, "dir1/")
		assert.Contains(t, out, "2024-01-02 03:04:05")
		assert.NotContains(t, out, ".123456")
		assert.Contains(t, out, "2 object(s) (2.0 KB total)")
	})
}

func TestHumanFormatter_FormatUpload(t *testing.T) {
	t.Run("success and failure", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{}
		require.NoError(t, f.FormatUpload(&buf, []clientcli.UploadResult{
			{Container: "c", LocalPath: "a.txt", RemotePath: "docs/a.txt", Size: 10, DeleteAfter: 60},
			{Container: "c", LocalPath: "b.txt", Err: errors.New("boom")},
		}))

		assert.Equal(t, "Uploaded: c/docs/a.txt (10 B)\n  Expires after: 60s\nError: b.txt - boom\n", buf.String())
	})

	t.Run("quiet shows only errors", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{Quiet: true}
		require.NoError(t, f.FormatUpload(&buf, []clientcli.UploadResult{
			{Container: "c", LocalPath: "a.txt", RemotePath: "a.txt"},
			{Container: "c", LocalPath: "b.txt", Err: errors.New("boom")},
		}))

		assert.Equal(t, "Error: b.txt - boom\n", buf.String())
	})
}

func TestHumanFormatter_FormatArchive(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	require.NoError(t, f.FormatArchive(&buf, &clientcli.ArchiveUploadResult{
		Source: "site.tar",
		Format: "tar",
		Result: &selcdn.ArchiveResult{
			FilesCreated:   2,
			ResponseStatus: "400 Bad Request",
			Errors:         []selcdn.ArchiveError{{Name: "big.bin", Status: "413 Request Entity Too Large"}},
		},
	}))

	assert.Equal(t,
		"Error: big.bin - 413 Request Entity Too Large\n"+
			"Extracted: site.tar -> (account) (tar)\n"+
			"  Files created: 2\n"+
			"  Status: 400 Bad Request\n",
		buf.String())
}

func TestHumanFormatter_FormatDeleteAndExists(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	require.NoError(t, f.FormatDelete(&buf, []clientcli.DeleteResult{
		{Container: "c", Path: "a.txt", Deleted: true},
		{Container: "c", Path: "dir", Recursive: true, Deleted: true},
		{Container: "c", Path: "gone", Err: errors.New("not found")},
	}))
	require.NoError(t, f.FormatExists(&buf, clientcli.ExistsResult{Container: "c", Path: "a.txt", Exists: true}))
	require.NoError(t, f.FormatExists(&buf, clientcli.ExistsResult{Container: "c", Path: "b.txt"}))

	assert.Equal(t,
		"Deleted: c/a.txt\n"+
			"Deleted folder: c/dir\n"+
			"Error: gone - not found\n"+
			"Exists: c/a.txt\n"+
			"Not found: c/b.txt\n",
		buf.String())
}

func TestHumanFormatter_Profiles(t *testing.T) {
	f := &clientcli.HumanFormatter{}
	profiles := []clientcli.Profile{
		{Name: "dev", AuthURL: "http://localhost/auth/", Login: "dev", Password: "short"},
		{Name: "prod", AuthURL: "https://auth.selcdn.ru/", Login: "12345", Password: "verylongpassword"},
	}

	var buf bytes.Buffer
	require.NoError(t, f.FormatProfileList(&buf, profiles, "prod", false))
	out := buf.String()
	assert.Contains(t, out, "* prod")
	assert.Contains(t, out, "very...word")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "verylongpassword")

	buf.Reset()
	require.NoError(t, f.FormatProfileShow(&buf, profiles[1], true, true))
	assert.Equal(t,
		"Name:     prod (default)\n"+
			"Auth URL: https://auth.selcdn.ru/\n"+
			"Login:    12345\n"+
			"Password: verylongpassword\n",
		buf.String())
}

func TestJSONFormatter_FormatUpload(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	require.NoError(t, f.FormatUpload(&buf, []clientcli.UploadResult{
		{Container: "c", LocalPath: "a.txt", RemotePath: "a.txt", Size: 3},
		{Container: "c", LocalPath: "b.txt", Err: errors.New("boom")},
	}))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "a.txt", out[0]["remote_path"])
	assert.NotContains(t, out[0], "error")
	assert.Equal(t, "boom", out[1]["error"])
}

func TestJSONFormatter_FormatDelete(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	require.NoError(t, f.FormatDelete(&buf, []clientcli.DeleteResult{
		{Container: "c", Path: "dir", Recursive: true, Deleted: true},
		{Container: "c", Path: "x", Err: errors.New("forbidden")},
	}))

	assert.JSONEq(t, `{"results":[
		{"container":"c","path":"dir","recursive":true,"deleted":true},
		{"container":"c","path":"x","deleted":false,"error":"forbidden"}
	]}`, buf.String())
}

func TestJSONFormatter_Listings(t *testing.T) {
	f := &clientcli.JSONFormatter{}

	var buf bytes.Buffer
	require.NoError(t, f.FormatContainers(&buf, nil))
	assert.JSONEq(t, `{"containers":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, f.FormatList(&buf, &clientcli.ListResult{Container: "c"}))
	assert.JSONEq(t, `{"container":"c","items":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, f.FormatExists(&buf, clientcli.ExistsResult{Container: "c", Path: "a", Exists: true}))
	assert.JSONEq(t, `{"container":"c","path":"a","exists":true}`, buf.String())
}

func TestJSONFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	require.NoError(t, f.FormatError(&buf, errors.New("something broke")))
	assert.JSONEq(t, `{"error":"something broke"}`, buf.String())
}

func TestJSONFormatter_Profiles(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	require.NoError(t, f.FormatProfileShow(&buf, clientcli.Profile{Name: "p", Login: "l", Password: "verylongpassword"}, false, false))
	assert.JSONEq(t, `{"name":"p","auth_url":"","login":"l","password":"very...word","default":false}`, buf.String())
}
