package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMd5Abc(t *testing.T) {
	var digest [DigestLenMd5]byte
	Md5([]byte("abc"), digest[:])
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", hex.EncodeToString(digest[:]))
}

func TestMd5EmptyString(t *testing.T) {
	var digest [DigestLenMd5]byte
	Md5(nil, digest[:])
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", hex.EncodeToString(digest[:]))
}
