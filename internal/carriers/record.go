package carriers

import "time"

// Subtype is the canonical transaction subtype detected from a document.
type Subtype string

const (
	SubtypeQuote   Subtype = "quote"
	SubtypeBinder  Subtype = "binder"
	SubtypePolicy  Subtype = "policy"
	SubtypeRenewal Subtype = "renewal"
	SubtypeAP      Subtype = "ap"
	SubtypeRP      Subtype = "rp"
	SubtypeCancel  Subtype = "cancel"
)

// Record accumulates the business fields extracted from a document. Each
// extraction step takes the record by value and returns an updated copy, so a
// failed step never leaves a half-written field behind.
type Record struct {
	Carrier       string
	Subtype       Subtype
	Client        string
	Effective     time.Time
	Expiration    time.Time
	PolicyNumbers []string
	Premiums      []float64

	// InsertIndex is the number of source pages that precede the stamp pages
	// in the final artifact.
	InsertIndex int

	// MultiStamp marks a document split across two insurance providers; such
	// documents carry exactly two policy numbers and two premiums.
	MultiStamp bool
}
