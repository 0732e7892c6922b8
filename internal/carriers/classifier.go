package carriers

import (
	"log/slog"
	"strings"
)

// Carrier display names.
const (
	CarrierConcept     = "Concept"
	CarrierKemah       = "Kemah"
	CarrierYachtinsure = "Yachtinsure"
)

// Classify identifies the issuing carrier from the first page and returns its
// extractor. Markers are literal substrings checked in a fixed priority order
// per block; the first hit wins.
func Classify(logger *slog.Logger, d *Document) (Extractor, error) {
	for _, block := range d.Pages[0] {
		switch {
		case strings.Contains(block, "Concept Special Risks"):
			logger.Debug("carrier identified", "carrier", CarrierConcept, "document", d.FileName())
			return NewConcept(logger), nil
		case strings.Contains(block, "Sutton Specialty Insurance Company"):
			logger.Debug("carrier identified", "carrier", CarrierKemah, "document", d.FileName())
			return NewKemah(logger), nil
		case strings.Contains(strings.ToLower(block), "yachtinsure"):
			logger.Debug("carrier identified", "carrier", CarrierYachtinsure, "document", d.FileName())
			return NewYachtinsure(logger), nil
		}
	}
	return nil, &DocError{Err: ErrUnidentifiedCarrier, Path: d.Path}
}
