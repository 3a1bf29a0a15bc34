package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey returns "prefix:<sha256 of the JSON-encoded parts>". Options
// structs go through JSON so field order, not map order, fixes the digest.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data. The file cache and the molecule
// registry use it as a file name.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// InputHash hashes one input record together with its format, so the same
// text read as SMILES or as JSON never collides.
func InputHash(format string, data []byte) string {
	return Hash(append([]byte(format+"\x00"), data...))
}
