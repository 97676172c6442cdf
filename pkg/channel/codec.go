package channel

import (
	"encoding/binary"
	"time"
)

// EmittedHeader names the header carrying the producer-side emission time as
// 8 little-endian bytes of epoch milliseconds. Producer and consumer share
// this codec so the byte order cannot drift between the two sides.
const EmittedHeader = "bb-emitted-ms"

const emittedLen = 8

// EmittedValue encodes an emission timestamp header value.
func EmittedValue(t time.Time) []byte {
	buf := make([]byte, emittedLen)
	binary.LittleEndian.PutUint64(buf, uint64(t.UnixMilli()))
	return buf
}

// EmittedMs decodes an emission timestamp header value. ok is false unless
// the value is exactly 8 bytes; anything else is treated as absent.
func EmittedMs(v []byte) (int64, bool) {
	if len(v) != emittedLen {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(v)), true
}
