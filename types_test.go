package selcdn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageEntry_IsDirectory(t *testing.T) {
	assert.True(t, StorageEntry{ContentType: DirectoryContentType}.IsDirectory())
	assert.False(t, StorageEntry{ContentType: "text/plain"}.IsDirectory())
	assert.False(t, StorageEntry{}.IsDirectory())
}

func TestContainerInfo_DomainList(t *testing.T) {
	assert.Nil(t, ContainerInfo{}.DomainList())
	assert.Equal(t, []string{"a.example.com", "b.example.com"},
		ContainerInfo{Domains: "a.example.com, b.example.com,"}.DomainList())
}

func TestServerArchiveResult(t *testing.T) {
	body := `{
		"Number Files Created": 3,
		"Response Status": "400 Bad Request",
		"Response Body": "",
		"Errors": [["site/big.bin", "413 Request Entity Too Large"], ["lonely"]]
	}`

	var raw serverArchiveResult
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	assert.Equal(t, &ArchiveResult{
		FilesCreated:   3,
		ResponseStatus: "400 Bad Request",
		Errors: []ArchiveError{
			{Name: "site/big.bin", Status: "413 Request Entity Too Large"},
			{Name: "lonely"},
		},
	}, raw.toResult())
}
