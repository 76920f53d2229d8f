package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed IDs. The version suffix enables
// future algorithm migration.
const (
	DomainRecord  = "genprobe/record/v1"
	DomainSession = "genprobe/session/v1"
)

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data). The null separator prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordID computes the content-addressed ID for one emitted record half.
//
// Only logical fields participate: session, identity, sequence, and label.
// Sequence numbers are unique per identity within a session, so these four
// fields identify a record completely. Text is excluded on purpose so that
// rendering parameters (truncation, verbosity) never change a record's ID,
// and re-ingesting the same build log stays idempotent in the store.
func RecordID(session, identity string, sequence int64, label Label) (string, error) {
	if !label.Valid() {
		return "", fmt.Errorf("RecordID: invalid label %q", label)
	}
	obj := map[string]any{
		"session":  session,
		"identity": identity,
		"sequence": sequence,
		"label":    label,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RecordID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}

// MustRecordID is like RecordID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRecordID(session, identity string, sequence int64, label Label) string {
	id, err := RecordID(session, identity, sequence, label)
	if err != nil {
		panic(err)
	}
	return id
}
