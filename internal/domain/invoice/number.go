package invoice

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	ierr "github.com/subcycle/subcycle/internal/errors"
)

const (
	// NumberPrefixStandard prefixes monthly renewal invoice numbers.
	NumberPrefixStandard = "FAC"
	// NumberPrefixProration prefixes proration invoice numbers.
	NumberPrefixProration = "PRO"
)

// GenerateNumber produces an invoice number of the form PREFIX-XXXXXXXX
// where X is an uppercase hex digit from a cryptographic source.
func GenerateNumber(prefix string) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate invoice number").
			Mark(ierr.ErrSystem)
	}
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(b)), nil
}
