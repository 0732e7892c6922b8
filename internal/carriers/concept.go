package carriers

import (
	"log/slog"
	"strings"

	"github.com/quickdraw/surpluslines/pkg/formatting"
)

// conceptFlatFee is added to every primary-issue premium.
const conceptFlatFee = 35

// subtypeEndorsement is an internal marker: the endorsement title alone does
// not say which way the money moves, so a second scan resolves it.
const subtypeEndorsement Subtype = "endt"

var conceptFinder = []subtypeKeyword{
	{SubtypeQuote, "Quotation"},
	{SubtypeBinder, "Temporary Binder"},
	{SubtypePolicy, "Cover Note"},
	{SubtypeRenewal, "Renewal Quotation"},
	{subtypeEndorsement, "Policy Endorsement"},
}

var conceptEndorsements = []subtypeKeyword{
	{SubtypeAP, "Additional Premium"},
	{SubtypeCancel, "hereunder is cancelled"},
	{SubtypeRP, "Return Premium"},
}

// Concept extracts Concept Special Risks documents. Concept prints labels as
// standalone blocks, so lookups match whole blocks exactly and read the value
// from the block that follows.
type Concept struct {
	logger *slog.Logger
}

func NewConcept(logger *slog.Logger) *Concept {
	return &Concept{logger: logger.With("carrier", CarrierConcept)}
}

func (c *Concept) Carrier() string { return CarrierConcept }

func (c *Concept) Subtype(d *Document, r Record) (Record, error) {
	first := d.Pages[0]
	for _, sk := range conceptFinder {
		if _, ok := indexBlock(first, sk.keyword); !ok {
			continue
		}
		if sk.subtype != subtypeEndorsement {
			r.Subtype = sk.subtype
			// Primary issues get stamped after the schedule page.
			r.InsertIndex = 2
			return r, nil
		}
		for _, block := range first {
			for _, endorsement := range conceptEndorsements {
				if strings.Contains(block, endorsement.keyword) {
					r.Subtype = endorsement.subtype
					return r, nil
				}
			}
		}
	}
	return r, docErrf(ErrUnknownDocType, d, r, "no document type keyword matched")
}

func (c *Concept) Client(d *Document, r Record) (Record, error) {
	label := "Assured:"
	if r.Subtype == SubtypeQuote || r.Subtype == SubtypeRenewal {
		label = "Applicant:"
	}
	i, ok := indexBlock(d.Pages[0], label)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "client label %q not found", label)
	}
	value, ok := nextBlock(d.Pages[0], i)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "no value after client label %q", label)
	}
	r.Client = strings.TrimSpace(value)
	return r, nil
}

func (c *Concept) Effective(d *Document, r Record) (Record, error) {
	first := d.Pages[0]
	var fragment string
	switch r.Subtype {
	case SubtypeQuote:
		i, ok := indexBlock(first, "Date:")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "date label not found")
		}
		fragment, _ = nextBlock(first, i)
	case SubtypeBinder, SubtypePolicy:
		i, ok := indexBlock(first, "Period of Cover:")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "period of cover label not found")
		}
		fragment, _ = nextBlock(first, i)
	default:
		i, ok := findBlock(first, "with effect from")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "effective date clause not found")
		}
		fragment = first[i]
	}

	// A cover period can open with a time of day ("00.01 1st March 2024");
	// drop it so the date is the first parseable fragment.
	fragment = strings.ReplaceAll(fragment, "00.01", "")
	t, err := FindDate(fragment)
	if err != nil {
		return r, docErrf(ErrDocParse, d, r, "effective date: %v", err)
	}
	r.Effective = t
	return r, nil
}

func (c *Concept) MultiStamp(d *Document, r Record) (Record, error) {
	for _, page := range d.Pages {
		for i, block := range page {
			if !strings.Contains(block, "Insurance Providers:") {
				continue
			}
			if next, ok := nextBlock(page, i); ok && strings.Contains(next, "except") {
				c.logger.Debug("split-provider document detected", "document", d.FileName())
				r.MultiStamp = true
				return r, nil
			}
		}
	}
	return r, nil
}

func (c *Concept) PolicyNumbers(d *Document, r Record) (Record, error) {
	label := "Declaration Number:"
	if r.Subtype == SubtypeQuote || r.Subtype == SubtypeRenewal {
		label = "Quote Number:"
	}
	i, ok := indexBlock(d.Pages[0], label)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "policy number label %q not found", label)
	}
	value, ok := nextBlock(d.Pages[0], i)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "no value after policy number label %q", label)
	}
	r.PolicyNumbers = append(r.PolicyNumbers, strings.TrimSpace(value))

	if r.MultiStamp {
		second, err := c.secondaryPolicyNumber(d, r)
		if err != nil {
			return r, err
		}
		r.PolicyNumbers = append(r.PolicyNumbers, second)
	}
	return r, nil
}

// secondaryPolicyNumber reads the second provider's cover note reference from
// the insurer schedule page.
func (c *Concept) secondaryPolicyNumber(d *Document, r Record) (string, error) {
	if len(d.Pages) < 2 {
		return "", docErrf(ErrDocParse, d, r, "insurer schedule page not captured")
	}
	for _, block := range d.Pages[1] {
		_, rest, ok := strings.Cut(block, "per cover note")
		if !ok {
			continue
		}
		rest, _, _ = strings.Cut(rest, ")")
		rest, _, _ = strings.Cut(rest, "(")
		return strings.TrimSpace(rest), nil
	}
	return "", docErrf(ErrDocParse, d, r, "secondary cover note reference not found")
}

func (c *Concept) Premiums(d *Document, r Record) (Record, error) {
	if r.MultiStamp {
		return c.providerPremiums(d, r)
	}
	first := d.Pages[0]
	switch r.Subtype {
	case SubtypeQuote, SubtypeBinder, SubtypePolicy, SubtypeRenewal:
		i, ok := indexBlock(first, "Total Premium:")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "total premium label not found")
		}
		value, ok := nextBlock(first, i)
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "no value after total premium label")
		}
		_, rest, ok := strings.Cut(value, "US$")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "no US$ amount in %q", value)
		}
		rest, _, _ = strings.Cut(rest, "cancelling")
		premium, err := formatting.ParseAmount(rest)
		if err != nil {
			return r, docErrf(ErrDocParse, d, r, "total premium: %v", err)
		}
		r.Premiums = append(r.Premiums, premium+conceptFlatFee)
	default:
		// Endorsements print the adjustment amount in the final US$ clause.
		i, ok := lastBlock(first, "US$")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "no US$ amount on endorsement page")
		}
		_, rest, _ := strings.Cut(first[i], "US$")
		premium, err := formatting.ParseAmount(firstToken(rest))
		if err != nil {
			return r, docErrf(ErrDocParse, d, r, "endorsement premium: %v", err)
		}
		r.Premiums = append(r.Premiums, premium)
	}
	return r, nil
}

// providerPremiums splits a two-provider premium off the insurer schedule
// page. The provider roster is fixed; anything else means the document layout
// changed and amounts cannot be trusted.
func (c *Concept) providerPremiums(d *Document, r Record) (Record, error) {
	if len(d.Pages) < 2 {
		return r, docErrf(ErrDocParse, d, r, "insurer schedule page not captured")
	}
	for i, block := range d.Pages[1] {
		if !strings.Contains(block, "Insurance Provider") {
			continue
		}
		detail, ok := nextBlock(d.Pages[1], i)
		if !ok {
			break
		}
		for _, provider := range []string{"Accelerant Specialty", "Texas Insurance", "Lloyd's Syndicates"} {
			if !strings.Contains(detail, provider) {
				return r, docErrf(ErrDocParse, d, r, "unexpected insurance provider set in %q", detail)
			}
		}

		head, tail, _ := strings.Cut(detail, ")")
		at := strings.LastIndex(head, "US$")
		if at < 0 {
			return r, docErrf(ErrDocParse, d, r, "no US$ amount in first provider clause")
		}
		primary, err := formatting.ParseAmount(head[at+len("US$"):])
		if err != nil {
			return r, docErrf(ErrDocParse, d, r, "first provider premium: %v", err)
		}

		_, rest, ok := strings.Cut(tail, "premium US$")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "no second provider premium clause")
		}
		rest, _, _ = strings.Cut(rest, ")")
		secondary, err := formatting.ParseAmount(rest)
		if err != nil {
			return r, docErrf(ErrDocParse, d, r, "second provider premium: %v", err)
		}

		r.Premiums = append(r.Premiums, primary+conceptFlatFee, secondary)
		return r, nil
	}
	return r, docErrf(ErrDocParse, d, r, "insurance provider block not found")
}

// NeedsStamp always holds for Concept; every supported document gets stamped.
func (c *Concept) NeedsStamp(d *Document, r Record) bool { return true }
