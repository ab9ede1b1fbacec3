package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C_KnownVector(t *testing.T) {
	// RFC 3720 test vector: 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))
}

func TestCRC32C_StreamingMatchesOneShot(t *testing.T) {
	data := []byte("ZD\x01\x01some record bytes with a heap section")
	h := NewCRC32C()
	_, _ = h.Write(data[:10])
	_, _ = h.Write(data[10:])
	assert.Equal(t, CRC32C(data), h.Sum32())
}

func TestCRC32CBase64(t *testing.T) {
	// base64 of big-endian 0x8a9136aa
	assert.Equal(t, "ipE2qg==", CRC32CBase64(make([]byte, 32)))
}
