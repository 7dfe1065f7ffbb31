package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewID builds an identifier of the form {timestamp}-{8 hex chars}, the
// shape shared by store records and issue reports.
func NewID(timestamp int64) string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%d-%s", timestamp, hex.EncodeToString(suffix))
}
