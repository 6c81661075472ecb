package random

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// tableIDChars omits characters that are easy to misread (0/O, 1/I).
const tableIDChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TableID returns a random table identifier of the given length.
func TableID(length int) string {
	if length <= 0 {
		return ""
	}
	max := big.NewInt(int64(len(tableIDChars)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = tableIDChars[0]
			continue
		}
		out[i] = tableIDChars[n.Int64()]
	}
	return string(out)
}

// Seed draws a shuffle seed from the system CSPRNG.
func Seed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
