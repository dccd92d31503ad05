package sparse

import "encoding/hex"

// ToHex encodes the content of a fully contiguous store as a hex string.
// It fails with ErrNonContiguous if the content spans a gap.
func ToHex(m *Memory) (string, error) {
	b, err := m.ToBytes(m.ContentSpan())
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// FromHex decodes a hex string into a contiguous store at offset.
func FromHex(s string, offset int64) (*Memory, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return FromBytes(b, offset), nil
}
