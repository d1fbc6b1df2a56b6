package mintreg

// TokenMetadata carries the descriptive fields shared by a series and,
// with derived overrides, by each of its editions. All fields except
// Title are optional; Copies is nil for an unbounded series.
type TokenMetadata struct {
	Title         string  `json:"title,omitempty"`
	Description   string  `json:"description,omitempty"`
	Media         string  `json:"media,omitempty"`
	MediaHash     string  `json:"media_hash,omitempty"`
	Copies        *uint64 `json:"copies,omitempty"`
	IssuedAt      string  `json:"issued_at,omitempty"`
	ExpiresAt     string  `json:"expires_at,omitempty"`
	StartsAt      string  `json:"starts_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
	Extra         string  `json:"extra,omitempty"`
	Reference     string  `json:"reference,omitempty"`
	ReferenceHash string  `json:"reference_hash,omitempty"`
}

// Clone returns a deep copy of the metadata.
func (m *TokenMetadata) Clone() *TokenMetadata {
	if m == nil {
		return nil
	}
	out := *m
	if m.Copies != nil {
		c := *m.Copies
		out.Copies = &c
	}
	return &out
}
