package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTipID computes a deterministic tip_id using SHA256.
// Formula: SHA256(creator_id|timeframe|tip_timestamp|entry_price)
// Returns hex-encoded hash (64 characters).
//
// Entry price is rendered with %g so the same float always hashes the same
// regardless of how the caller formatted it upstream.
func ComputeTipID(creatorID, timeframe string, tipTimestamp int64, entryPrice float64) string {
	data := fmt.Sprintf("%s|%s|%d|%g", creatorID, timeframe, tipTimestamp, entryPrice)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
