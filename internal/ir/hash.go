package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainContract is the domain prefix for content-addressed contract
// identity. The version suffix enables future algorithm migration.
const DomainContract = "servo/binding-contract/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContractHash computes the content-addressed identity of an interface
// contract. The Hash field itself is excluded from the hashed bytes.
// Given identical inputs the hash is stable across runs and hosts.
func ContractHash(c *InterfaceContract) (string, error) {
	stripped := *c
	stripped.Hash = ""

	// Round-trip through encoding/json to obtain a plain
	// map[string]any for canonical marshaling.
	raw, err := json.Marshal(&stripped)
	if err != nil {
		return "", fmt.Errorf("ContractHash: marshal: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("ContractHash: unmarshal: %w", err)
	}
	sanitizeNumbers(generic)

	canonical, err := MarshalCanonical(generic)
	if err != nil {
		return "", fmt.Errorf("ContractHash: canonical marshal: %w", err)
	}
	return hashWithDomain(DomainContract, canonical), nil
}

// sanitizeNumbers rewrites the float64 values encoding/json produces
// for JSON numbers back to int64. Contracts only ever carry integer
// positions, so a fractional value here is a programming error.
func sanitizeNumbers(v any) {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			if f, ok := elem.(float64); ok {
				val[k] = int64(f)
				continue
			}
			sanitizeNumbers(elem)
		}
	case []any:
		for i, elem := range val {
			if f, ok := elem.(float64); ok {
				val[i] = int64(f)
				continue
			}
			sanitizeNumbers(elem)
		}
	}
}
