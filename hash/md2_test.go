package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMd2RFC1319Vectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "8350e5a3e24c153df2275c9f80692773"},
		{"a", "32ec01ec4a6dac72c0ab96fb34c0b5d1"},
		{"abc", "da853b0d3f88d99b30283a69e6ded6bb"},
		{"message digest", "ab4f496bfb2a530b219ff33031fe06b0"},
	}
	for _, c := range cases {
		var digest [DigestLenMd2]byte
		Md2([]byte(c.in), digest[:])
		assert.Equal(t, c.want, hex.EncodeToString(digest[:]), "input %q", c.in)
	}
}
