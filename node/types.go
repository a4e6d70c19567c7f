package node

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
)

// ContentHash is the content address ("CID"-like string) identifying an
// object on the storage node. The zero value is the absent hash; every
// non-zero value wraps a non-empty string. Two hashes are equal iff their
// underlying strings are equal.
type ContentHash struct {
	value string
}

// ParseHash wraps s as a ContentHash. It reports false for the empty string.
func ParseHash(s string) (ContentHash, bool) {
	if s == "" {
		return ContentHash{}, false
	}
	return ContentHash{value: s}, true
}

// MustParseHash wraps s as a ContentHash and fatals on empty input.
func MustParseHash(s string) ContentHash {
	hash, ok := ParseHash(s)
	if !ok {
		logrus.Fatal("Failed to parse empty content hash")
	}
	return hash
}

// IsZero reports whether h is the absent hash.
func (h ContentHash) IsZero() bool {
	return h.value == ""
}

func (h ContentHash) String() string {
	return h.value
}

// LinkedFile is one named link inside a directory object: the entry name,
// the content hash it points at and the size the node reports for it. Sizes
// can exceed 64 bits, hence the big.Int.
type LinkedFile struct {
	Name string
	Hash ContentHash
	Size *big.Int
}

// isMissing reports whether a field was absent or given as JSON null. Null
// is rejected like an absent field: unmarshaling null into a Go string is a
// no-op, which would otherwise let a null Name or Hash slip through as "".
func isMissing(raw json.RawMessage) bool {
	return raw == nil || string(raw) == "null"
}

// rawLink keeps the three fields undecoded so validation can run in a fixed
// order with a field-specific message on the first failure.
type rawLink struct {
	Name json.RawMessage `json:"Name"`
	Hash json.RawMessage `json:"Hash"`
	Size json.RawMessage `json:"Size"`
}

// decodeLinkedFile decodes one link object. Name must be a string, Hash a
// non-empty string and Size a non-negative integer given either as a JSON
// string or as a native number. Checks short-circuit on the first failure.
func decodeLinkedFile(data []byte) (LinkedFile, error) {
	var raw rawLink
	if err := json.Unmarshal(data, &raw); err != nil {
		return LinkedFile{}, err
	}

	if isMissing(raw.Name) {
		return LinkedFile{}, fmt.Errorf("missing field Name")
	}
	var name string
	if err := json.Unmarshal(raw.Name, &name); err != nil {
		return LinkedFile{}, fmt.Errorf("field Name is not a string")
	}

	if isMissing(raw.Hash) {
		return LinkedFile{}, fmt.Errorf("missing field Hash")
	}
	var hashStr string
	if err := json.Unmarshal(raw.Hash, &hashStr); err != nil {
		return LinkedFile{}, fmt.Errorf("field Hash is not a string")
	}
	hash, ok := ParseHash(hashStr)
	if !ok {
		return LinkedFile{}, fmt.Errorf("invalid hash")
	}

	if isMissing(raw.Size) {
		return LinkedFile{}, fmt.Errorf("missing field Size")
	}
	size, err := decodeSize(raw.Size)
	if err != nil {
		return LinkedFile{}, err
	}

	return LinkedFile{Name: name, Hash: hash, Size: size}, nil
}

// decodeSize accepts either "42" or 42. Negative values and anything that is
// not a base-10 integer are rejected.
func decodeSize(raw json.RawMessage) (*big.Int, error) {
	text := string(raw)
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		text = str
	}

	size, ok := new(big.Int).SetString(text, 10)
	if !ok || size.Sign() < 0 {
		return nil, fmt.Errorf("invalid size %v", text)
	}
	return size, nil
}

// decodeLinks decodes an object/get response: a top-level Links array of
// link objects. Any element failing to decode fails the whole list, no
// partial results.
func decodeLinks(data []byte) ([]LinkedFile, error) {
	var raw struct {
		Links json.RawMessage `json:"Links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if isMissing(raw.Links) {
		return nil, fmt.Errorf("missing field Links")
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw.Links, &elements); err != nil {
		return nil, fmt.Errorf("field Links is not an array")
	}

	links := make([]LinkedFile, len(elements))
	for i, element := range elements {
		link, err := decodeLinkedFile(element)
		if err != nil {
			return nil, fmt.Errorf("link %v: %v", i, err)
		}
		links[i] = link
	}

	return links, nil
}
