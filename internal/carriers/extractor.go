package carriers

import (
	"context"
	"log/slog"
	"math"
)

// Extractor is a carrier's rule set for reading business fields out of a
// document's text blocks. Each method advances the record and returns the
// updated copy.
type Extractor interface {
	Carrier() string
	Subtype(d *Document, r Record) (Record, error)
	Client(d *Document, r Record) (Record, error)
	Effective(d *Document, r Record) (Record, error)
	MultiStamp(d *Document, r Record) (Record, error)
	PolicyNumbers(d *Document, r Record) (Record, error)
	Premiums(d *Document, r Record) (Record, error)

	// NeedsStamp reports whether the document requires surplus lines stamps
	// at all. Called after extraction completes.
	NeedsStamp(d *Document, r Record) bool
}

// declarationsLocator is implemented by carriers whose declarations page may
// sit deep in the document, beyond the eagerly captured pages.
type declarationsLocator interface {
	LocateDeclarations(ctx context.Context, d *Document, r Record) (Record, error)
}

// subtypeKeyword pairs a subtype with the block text that marks it. Order in
// a finder slice is match priority.
type subtypeKeyword struct {
	subtype Subtype
	keyword string
}

// Extract runs the full extraction sequence for a classified document and
// validates the finished record.
func Extract(ctx context.Context, logger *slog.Logger, ex Extractor, d *Document) (Record, error) {
	r := Record{Carrier: ex.Carrier(), InsertIndex: 1}

	r, err := ex.Subtype(d, r)
	if err != nil {
		return r, err
	}
	logger.Debug("document type detected", "carrier", r.Carrier, "subtype", r.Subtype, "document", d.FileName())

	if locator, ok := ex.(declarationsLocator); ok {
		if r, err = locator.LocateDeclarations(ctx, d, r); err != nil {
			return r, err
		}
	}

	if r, err = ex.Client(d, r); err != nil {
		return r, err
	}
	if r, err = ex.Effective(d, r); err != nil {
		return r, err
	}
	r.Expiration = AddOneYear(r.Effective)

	if r, err = ex.MultiStamp(d, r); err != nil {
		return r, err
	}
	if r, err = ex.PolicyNumbers(d, r); err != nil {
		return r, err
	}
	if r, err = ex.Premiums(d, r); err != nil {
		return r, err
	}

	// Money returned to the client is always recorded as an outflow, whatever
	// sign the carrier printed.
	if r.Subtype == SubtypeCancel || r.Subtype == SubtypeRP {
		for i, p := range r.Premiums {
			r.Premiums[i] = -math.Abs(p)
		}
	}

	if err := validate(d, r); err != nil {
		return r, err
	}
	logger.Info("extraction complete",
		"carrier", r.Carrier,
		"subtype", r.Subtype,
		"client", r.Client,
		"policies", len(r.PolicyNumbers),
		"document", d.FileName())
	return r, nil
}

func validate(d *Document, r Record) error {
	switch {
	case len(r.Premiums) == 0 || len(r.PolicyNumbers) == 0:
		return docErrf(ErrDocParse, d, r, "extraction produced no premium/policy pairs")
	case len(r.Premiums) != len(r.PolicyNumbers):
		return docErrf(ErrDocParse, d, r, "%d premiums for %d policy numbers", len(r.Premiums), len(r.PolicyNumbers))
	case r.MultiStamp && len(r.Premiums) != 2:
		return docErrf(ErrDocParse, d, r, "multi-provider document yielded %d premiums, want 2", len(r.Premiums))
	}
	return nil
}
