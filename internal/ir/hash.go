package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for content-addressed element identity.
// Version suffix enables future algorithm migration.
const DomainElement = "schemamig/element/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ElementID computes the content-addressed key of an element's identity.
//
// The key covers kind, group and identity fields but NOT properties: two
// rows with the same ID are the same logical element and aggregate together.
// Because the group is part of the key, the same vertex stored in an old and
// a new group of a migration pair yields two distinct IDs.
func ElementID(e Element) (string, error) {
	obj := map[string]any{
		"kind":  string(e.Kind),
		"group": e.Group,
	}
	if e.Kind == KindEdge {
		obj["source"] = e.Source
		obj["destination"] = e.Destination
		obj["directed"] = e.Directed
	} else {
		obj["vertex"] = e.Vertex
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ElementID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainElement, canonical), nil
}

// MustElementID is like ElementID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustElementID(e Element) string {
	id, err := ElementID(e)
	if err != nil {
		panic(err)
	}
	return id
}
