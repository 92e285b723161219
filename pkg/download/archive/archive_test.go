package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForPath_RecognizesExtensions(t *testing.T) {
	cases := map[string]bool{
		"model.zip":     true,
		"model.tar.gz":  true,
		"model.tgz":     true,
		"model.tar.bz2": true,
		"model.tbz2":    true,
		"model.tar.zst": true,
		"model.tar":     true,
		"model.gz":      true,
		"model.gguf":    false,
		"model.bin":     false,
	}
	for path, want := range cases {
		_, ok := ForPath(path)
		assert.Equal(t, want, ok, path)
	}
}

func TestIsArchive(t *testing.T) {
	assert.True(t, IsArchive("bundle.zip"))
	assert.False(t, IsArchive("weights.gguf"))
}

func TestDestPathFor_RejectsTraversal(t *testing.T) {
	_, err := destPathFor("/dest", "../../etc/passwd")
	assert.Error(t, err)

	_, err = destPathFor("/dest", "/etc/passwd")
	assert.Error(t, err)
}

func TestDestPathFor_AllowsNestedRelative(t *testing.T) {
	path, err := destPathFor("/dest", "sub/dir/file.bin")
	assert.NoError(t, err)
	assert.Equal(t, "/dest/sub/dir/file.bin", path)
}
