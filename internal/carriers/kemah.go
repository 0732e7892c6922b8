package carriers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/quickdraw/surpluslines/pkg/formatting"
)

// TBAPolicyNumber stands in on quotes, which carry no policy number yet.
const TBAPolicyNumber = "TBA"

// kemahDeclarationsMarker is the exact block heading the declarations page
// inside a full policy packet.
const kemahDeclarationsMarker = "5. Declarations Page"

// Kemah extracts Kemah Marine documents issued through Sutton Specialty.
// Unlike Concept, Kemah prints label and value in the same block, so lookups
// match substrings and read the remainder of the block.
type Kemah struct {
	logger *slog.Logger

	// applicableStates lists the states whose filings run through this
	// pipeline; an insured address outside them needs no stamp.
	applicableStates []string
}

func NewKemah(logger *slog.Logger) *Kemah {
	return &Kemah{
		logger:           logger.With("carrier", CarrierKemah),
		applicableStates: []string{"FL"},
	}
}

func (k *Kemah) Carrier() string { return CarrierKemah }

func (k *Kemah) Subtype(d *Document, r Record) (Record, error) {
	first := d.Pages[0]
	if _, ok := indexBlock(first, "Recreational Yacht Insurance Quote"); ok {
		r.Subtype = SubtypeQuote
		return r, nil
	}
	if _, ok := indexBlock(first, "Recreational Yacht Insurance Binder"); ok {
		r.Subtype = SubtypeBinder
		return r, nil
	}
	if _, ok := indexBlock(first, "Policy Changes"); ok {
		return k.changeSubtype(d, r)
	}
	for _, block := range first {
		if strings.Contains(block, "Declarations Page") || strings.Contains(block, "Recreational Yacht Insurance Policy") {
			r.Subtype = SubtypePolicy
			return r, nil
		}
	}
	return r, docErrf(ErrUnknownDocType, d, r, "no document type keyword matched")
}

// changeSubtype resolves a policy-change notice by which change rate is
// populated: a non-zero additional premium wins, an explicit cancellation
// heading comes next, then a non-zero return premium.
func (k *Kemah) changeSubtype(d *Document, r Record) (Record, error) {
	rates, err := k.changeRates(d, r)
	if err != nil {
		return r, err
	}
	_, cancelled := indexBlock(d.Pages[0], "Policy Cancellation")
	switch {
	case rates.ap != 0:
		r.Subtype = SubtypeAP
	case cancelled:
		r.Subtype = SubtypeCancel
	case rates.rp != 0:
		r.Subtype = SubtypeRP
	default:
		return r, docErrf(ErrUnknownDocType, d, r, "policy change with no populated rate")
	}
	return r, nil
}

type kemahChangeRates struct {
	ap, rp, taxes float64
}

// changeRates reads the three-row rate table anchored on the last
// "Additional Premium" block: additional premium, return premium, taxes.
func (k *Kemah) changeRates(d *Document, r Record) (kemahChangeRates, error) {
	first := d.Pages[0]
	i, ok := lastBlock(first, "Additional Premium")
	if !ok {
		return kemahChangeRates{}, docErrf(ErrDocParse, d, r, "change rate table not found")
	}
	if i+2 >= len(first) {
		return kemahChangeRates{}, docErrf(ErrDocParse, d, r, "change rate table truncated")
	}
	var rates kemahChangeRates
	var err error
	if rates.ap, err = parseChangeRate(first[i]); err != nil {
		return rates, docErrf(ErrDocParse, d, r, "additional premium rate: %v", err)
	}
	if rates.rp, err = parseChangeRate(first[i+1]); err != nil {
		return rates, docErrf(ErrDocParse, d, r, "return premium rate: %v", err)
	}
	if rates.taxes, err = parseChangeRate(first[i+2]); err != nil {
		return rates, docErrf(ErrDocParse, d, r, "taxes rate: %v", err)
	}
	return rates, nil
}

// parseChangeRate reads the amount after the "$" in a change-rate block.
// "XX" is the intentionally-blank marker and reads as zero; a "-" in the
// block marks the amount negative.
func parseChangeRate(block string) (float64, error) {
	_, rest, ok := strings.Cut(block, "$")
	if !ok {
		return 0, formatting.ErrInvalidAmount
	}
	if strings.Contains(rest, "XX") {
		return 0, nil
	}
	v, err := formatting.ParseAmount(firstToken(rest))
	if err != nil {
		return 0, err
	}
	if strings.Contains(block, "-") {
		return -v, nil
	}
	return v, nil
}

func (k *Kemah) Client(d *Document, r Record) (Record, error) {
	label := "Insured:"
	if r.Subtype == SubtypeQuote {
		label = "Applicant:"
	}
	for _, block := range d.Pages[0] {
		// "Additional Insured:" rows name lienholders, not the client.
		if strings.Contains(block, label) && !strings.Contains(block, "Additional") {
			_, rest, _ := strings.Cut(block, label)
			r.Client = strings.TrimSpace(rest)
			return r, nil
		}
	}
	return r, docErrf(ErrDocParse, d, r, "client label %q not found", label)
}

func (k *Kemah) Effective(d *Document, r Record) (Record, error) {
	var label, layout string
	switch r.Subtype {
	case SubtypePolicy, SubtypeBinder:
		label, layout = "Date of Issue:", "January 2, 2006"
	case SubtypeQuote:
		label, layout = "60 days from", "January 2, 2006"
	case SubtypeAP, SubtypeRP, SubtypeCancel:
		label, layout = "Effective Date:", "2 Jan 2006"
	default:
		return r, docErrf(ErrUnsupportedDocType, d, r, "no effective date rule for this document type")
	}

	i, ok := lastBlock(d.Pages[0], label)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "effective date label %q not found", label)
	}
	_, fragment, _ := strings.Cut(d.Pages[0][i], label)
	// Change notices append the time of day: "... at 12:01 AM".
	fragment, _, _ = strings.Cut(fragment, " at ")
	fragment = strings.TrimSpace(fragment)

	t, err := time.Parse(layout, fragment)
	if err != nil {
		return r, docErrf(ErrDocParse, d, r, "effective date %q: %v", fragment, err)
	}
	r.Effective = t
	return r, nil
}

func (k *Kemah) MultiStamp(d *Document, r Record) (Record, error) { return r, nil }

func (k *Kemah) PolicyNumbers(d *Document, r Record) (Record, error) {
	if r.Subtype == SubtypeQuote {
		r.PolicyNumbers = append(r.PolicyNumbers, TBAPolicyNumber)
		return r, nil
	}
	i, ok := findBlock(d.Pages[0], "Policy Number:")
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "policy number label not found")
	}
	_, rest, _ := strings.Cut(d.Pages[0][i], "Policy Number:")
	number := firstToken(rest)
	if number == "" {
		return r, docErrf(ErrDocParse, d, r, "no value after policy number label")
	}
	r.PolicyNumbers = append(r.PolicyNumbers, number)
	return r, nil
}

func (k *Kemah) Premiums(d *Document, r Record) (Record, error) {
	switch r.Subtype {
	case SubtypeAP, SubtypeRP, SubtypeCancel:
		rates, err := k.changeRates(d, r)
		if err != nil {
			return r, err
		}
		switch {
		case rates.ap != 0:
			r.Premiums = append(r.Premiums, rates.ap+rates.taxes)
		case rates.rp != 0:
			r.Premiums = append(r.Premiums, rates.rp+rates.taxes)
		default:
			r.Premiums = append(r.Premiums, 0)
		}
	default:
		i, ok := findBlock(d.Pages[0], "Total")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "total premium block not found")
		}
		_, rest, _ := strings.Cut(d.Pages[0][i], "Total")
		_, rest, ok = strings.Cut(rest, "$")
		if !ok {
			return r, docErrf(ErrDocParse, d, r, "no $ amount in total premium block")
		}
		premium, err := formatting.ParseAmount(firstToken(rest))
		if err != nil {
			return r, docErrf(ErrDocParse, d, r, "total premium: %v", err)
		}
		r.Premiums = append(r.Premiums, premium)
	}
	return r, nil
}

// NeedsStamp applies Kemah's eligibility rules: primary issues are stamped
// only when the insured's address sits in an applicable state (a blank or
// missing address defaults to stamping); change notices are stamped only when
// the surcharge row is marked intentionally blank.
func (k *Kemah) NeedsStamp(d *Document, r Record) bool {
	first := d.Pages[0]
	switch r.Subtype {
	case SubtypeQuote, SubtypeBinder, SubtypePolicy:
		label := "Insured"
		if r.Subtype == SubtypeQuote {
			label = "Applicant"
		}
		i, ok := findBlock(first, label)
		if !ok {
			return true
		}
		address, ok := nextBlock(first, i)
		if !ok || strings.TrimSpace(address) == "" {
			return true
		}
		for _, state := range k.applicableStates {
			if strings.Contains(address, state) {
				return true
			}
		}
		k.logger.Info("insured address outside applicable states", "document", d.FileName())
		return false
	case SubtypeAP, SubtypeRP, SubtypeCancel:
		i, ok := findBlock(first, "Surcharge")
		if !ok {
			return true
		}
		if !strings.Contains(first[i], "XX") {
			k.logger.Info("surcharge already assessed on change notice", "document", d.FileName())
			return false
		}
		return true
	}
	return true
}

// LocateDeclarations finds the declarations page inside a full policy packet
// when it is not the first page, retargets extraction at it, and records the
// stamp insertion point right behind it. Packets usually bind the
// declarations deep in the document, so the later window is scanned first.
func (k *Kemah) LocateDeclarations(ctx context.Context, d *Document, r Record) (Record, error) {
	if r.Subtype != SubtypePolicy {
		return r, nil
	}
	if _, ok := findBlock(d.Pages[0], "Declarations Page"); ok {
		return r, nil
	}

	count := d.PageCount()
	idx, page, err := k.scanForDeclarations(ctx, d, 15, count-1)
	if err != nil {
		return r, err
	}
	if idx < 0 {
		if idx, page, err = k.scanForDeclarations(ctx, d, 1, min(14, count-1)); err != nil {
			return r, err
		}
	}
	if idx < 0 {
		return r, docErrf(ErrDocParse, d, r, "declarations page not found in policy packet")
	}

	k.logger.Debug("declarations page located", "page", idx+1, "document", d.FileName())
	r.InsertIndex = idx + 1
	d.Pages[0] = page
	return r, nil
}

func (k *Kemah) scanForDeclarations(ctx context.Context, d *Document, start, end int) (int, []string, error) {
	for i := start; i <= end; i++ {
		page, err := d.Page(ctx, i)
		if err != nil {
			return -1, nil, err
		}
		if _, ok := indexBlock(page, kemahDeclarationsMarker); ok {
			return i, page, nil
		}
	}
	return -1, nil, nil
}
