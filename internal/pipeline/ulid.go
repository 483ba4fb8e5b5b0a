package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Run IDs are ULIDs: 26-character Crockford Base32 strings with a millisecond
// timestamp prefix, so log lines for one request sort chronologically.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewRunID returns a fresh ULID. Safe for concurrent use; a sequence counter
// keeps IDs distinct within the same millisecond.
func NewRunID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Sequence in bytes 6-7 guarantees uniqueness within one millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeULID(b)
}

// encodeULID packs 128 bits into 26 Crockford Base32 characters: 10 for the
// 48-bit timestamp, 16 for the 80-bit remainder.
func encodeULID(b [16]byte) string {
	var out [26]byte

	ts := uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
	for i := 9; i >= 0; i-- {
		out[i] = crockford[ts&31]
		ts >>= 5
	}

	hi := binary.BigEndian.Uint64(b[6:14])
	lo := uint64(binary.BigEndian.Uint16(b[14:16]))
	for i := 25; i >= 10; i-- {
		out[i] = crockford[lo&31]
		lo = (lo >> 5) | ((hi & 31) << 11)
		hi >>= 5
	}

	return string(out[:])
}
