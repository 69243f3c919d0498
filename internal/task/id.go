package task

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	minIDLength  = 3
	maxIDLength  = 8
	nonceSize    = 16 // 128 bits of entropy
	hexChunkSize = 4  // Process 4 hex chars (16 bits) at a time for base36 conversion
)

// Id prefixes keep entity kinds distinguishable at a glance.
const (
	PrefixTask     = "t"
	PrefixProject  = "p"
	PrefixTag      = "g"
	PrefixCategory = "c"
)

// GenerateID creates a unique id of the form "<prefix>-<base36>". The hash
// suffix starts at minIDLength characters and grows up to maxIDLength to
// avoid collisions reported by existsFn.
func GenerateID(prefix, seed string, createdAt time.Time, existsFn func(string) bool) string {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(prefix))
	h.Write([]byte(seed))
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write(nonce)
	base36 := hexToBase36(hex.EncodeToString(h.Sum(nil)))

	for length := minIDLength; length <= maxIDLength && length <= len(base36); length++ {
		candidate := prefix + "-" + base36[:length]
		if !existsFn(candidate) {
			return candidate
		}
	}

	// Fallback: longest suffix (extremely unlikely to reach here)
	return prefix + "-" + base36[:maxIDLength]
}

// hexToBase36 converts a hex string to base36.
func hexToBase36(hexStr string) string {
	var result strings.Builder
	for i := 0; i < len(hexStr); i += hexChunkSize {
		end := min(i+hexChunkSize, len(hexStr))
		val, _ := strconv.ParseUint(hexStr[i:end], 16, 64)
		result.WriteString(strconv.FormatUint(val, 36))
	}
	return result.String()
}
