// Package transactions maps detected document subtypes onto the canonical
// transaction codes the tax estimator understands and builds one submission
// payload per extracted premium.
package transactions

import (
	"errors"
	"fmt"

	"github.com/quickdraw/surpluslines/internal/carriers"
	"github.com/quickdraw/surpluslines/pkg/formatting"
)

// Canonical transaction codes.
const (
	CodeNewBusiness       = "1"
	CodeAdditionalPremium = "2"
	CodeReturnPremium     = "3"
	CodeCancellation      = "4"
	CodeRenewal           = "5"
)

// Fixed submission constants: every document in this pipeline is ocean
// marine coverage with untaxed status and no policy fee.
const (
	CoverageCode = "3006"
	TaxStatus    = "0"
)

// ErrUnmappedSubtype marks a subtype with no transaction code. The subtype
// enumeration and the code table must stay in lockstep; a miss is a defect,
// not an operator-recoverable condition.
var ErrUnmappedSubtype = errors.New("subtype has no transaction code")

// Code returns the canonical transaction code for a subtype.
func Code(st carriers.Subtype) (string, error) {
	switch st {
	case carriers.SubtypeQuote, carriers.SubtypeBinder, carriers.SubtypePolicy:
		return CodeNewBusiness, nil
	case carriers.SubtypeRenewal:
		return CodeRenewal, nil
	case carriers.SubtypeAP:
		return CodeAdditionalPremium, nil
	case carriers.SubtypeRP:
		return CodeReturnPremium, nil
	case carriers.SubtypeCancel:
		return CodeCancellation, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnmappedSubtype, st)
}

// Payload carries the fields serialized into one estimator submission.
type Payload struct {
	PolicyNumber    string
	Premium         float64
	Effective       string
	CoverageCode    string
	TransactionCode string
	TaxStatus       string
	PolicyFee       float64
}

// Build pairs each extracted premium with its policy number in extraction
// order, one payload per premium.
func Build(rec carriers.Record) ([]Payload, error) {
	code, err := Code(rec.Subtype)
	if err != nil {
		return nil, err
	}
	payloads := make([]Payload, 0, len(rec.Premiums))
	for i, premium := range rec.Premiums {
		payloads = append(payloads, Payload{
			PolicyNumber:    rec.PolicyNumbers[i],
			Premium:         premium,
			Effective:       rec.Effective.Format(formatting.DateLayout),
			CoverageCode:    CoverageCode,
			TransactionCode: code,
			TaxStatus:       TaxStatus,
		})
	}
	return payloads, nil
}
