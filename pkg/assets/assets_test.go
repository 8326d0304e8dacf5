package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalHasher_HashBytes(t *testing.T) {
	h := LocalHasher{}
	got := h.HashBytes([]byte("hello"))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)
	assert.Len(t, got, 64)
}

func TestSplitBucketKey(t *testing.T) {
	bucket, key, err := splitBucketKey("my-bucket/path/to/bundle.zip")
	assert.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/bundle.zip", key)

	_, _, err = splitBucketKey("no-separator")
	assert.Error(t, err)
}
