package jobrecord

import (
	"crypto/md5"
	"encoding/hex"
)

// hash128 produces the 32-hex-character fingerprint. MD5 is used purely as
// a fast, stable 128-bit digest; collision resistance is explicitly not a
// requirement (spec §4.A) so a cryptographic hash is not needed, only one
// that is deterministic across platforms and processes.
func hash128(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
