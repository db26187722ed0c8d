package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"time"

	"github.com/google/uuid"
)

const unclassifiedDir = "unclassified"

// Fingerprint is the hex sha256 of content.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func unclassifiedKey(orgID, outletID, docID uuid.UUID, ext string) string {
	return path.Join(orgID.String(), outletID.String(), unclassifiedDir, docID.String()+ext)
}

func datedKey(orgID, outletID, docID uuid.UUID, ext string, date time.Time) string {
	return path.Join(orgID.String(), outletID.String(), date.Format("2006/01/02"), docID.String()+ext)
}
