package mintreg

import (
	"fmt"
	"strconv"
	"strings"
)

// Wire format constants shared by the registry and its clients.
const (
	// TokenDelimiter separates the series id from the edition number in an
	// edition id, e.g. "42:2" is edition 2 of series 42.
	TokenDelimiter = ":"

	// TitleDelimiter joins the series title and the edition number in a
	// derived edition title, e.g. "Tsundere land #2".
	TitleDelimiter = " #"

	// EditionDelimiter joins the edition number and the copies cap in
	// display strings, e.g. "2/10".
	EditionDelimiter = "/"

	// TreasuryFeeBps is the platform fee in basis points deducted from
	// every series or bundle sale before the creator payout.
	TreasuryFeeBps = 500

	// BpsDenominator is the basis-point scale for royalty and fee shares.
	BpsDenominator = 10000
)

// EditionID builds the canonical edition id for a series and number.
func EditionID(seriesID string, number uint64) string {
	return seriesID + TokenDelimiter + strconv.FormatUint(number, 10)
}

// EditionTitle derives the display title of one edition from its series
// title, e.g. "Tsundere land #2".
func EditionTitle(seriesTitle string, number uint64) string {
	return seriesTitle + TitleDelimiter + strconv.FormatUint(number, 10)
}

// ParseEditionID splits an edition id into its series id and edition
// number. The number must be a positive decimal integer.
func ParseEditionID(editionID string) (seriesID string, number uint64, err error) {
	seriesID, num, ok := strings.Cut(editionID, TokenDelimiter)
	if !ok || seriesID == "" {
		return "", 0, fmt.Errorf("malformed edition id %q: %w", editionID, ErrInvalidInput)
	}
	number, err = strconv.ParseUint(num, 10, 64)
	if err != nil || number == 0 {
		return "", 0, fmt.Errorf("malformed edition number in %q: %w", editionID, ErrInvalidInput)
	}
	return seriesID, number, nil
}
