package view

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// ToJSON converts a view to indented JSON
func ToJSON(v *View) (string, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode view: %w", err)
	}
	return string(jsonData), nil
}

// Digest returns a BLAKE3 fingerprint of the view's JSON encoding. Two
// views with equal digests display the same thing.
func (v *View) Digest() (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode view: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
