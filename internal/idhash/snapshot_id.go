package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSnapshotID computes a deterministic snapshot_id using SHA256.
// Formula: SHA256(creator_id|snapshot_date)
// Returns hex-encoded hash (64 characters).
//
// One snapshot per creator per UTC day: rescoring the same creator on the
// same day produces the same ID, so the append-only history store rejects
// the rerun instead of duplicating the row.
func ComputeSnapshotID(creatorID, snapshotDate string) string {
	data := fmt.Sprintf("%s|%s", creatorID, snapshotDate)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
