package carriers

import (
	"log/slog"
	"strings"

	"github.com/quickdraw/surpluslines/pkg/formatting"
)

var yachtinsureFinder = []subtypeKeyword{
	{SubtypeQuote, "QUOTATION"},
	{SubtypePolicy, "Declarations page"},
	{SubtypeAP, "Additional Premium"},
	{SubtypeCancel, "CANCELLATION ENDORSEMENT"},
	{SubtypeRenewal, "Renewal"},
	{SubtypeRP, "Return Premium"},
}

// Yachtinsure extracts Yachtinsure documents. Labels and values share a
// block, and the totals section can land on any page, so amount lookups scan
// the whole capture.
type Yachtinsure struct {
	logger *slog.Logger
}

func NewYachtinsure(logger *slog.Logger) *Yachtinsure {
	return &Yachtinsure{logger: logger.With("carrier", CarrierYachtinsure)}
}

func (y *Yachtinsure) Carrier() string { return CarrierYachtinsure }

func (y *Yachtinsure) Subtype(d *Document, r Record) (Record, error) {
	for _, sk := range yachtinsureFinder {
		if _, ok := indexBlock(d.Pages[0], sk.keyword); !ok {
			continue
		}
		r.Subtype = sk.subtype
		// Yachtinsure stamps go at the back of the document, except on
		// money-out endorsements where the default front position holds.
		if sk.subtype != SubtypeRP && sk.subtype != SubtypeCancel {
			r.InsertIndex = d.PageCount()
		}
		y.logger.Debug("document type matched", "keyword", sk.keyword, "document", d.FileName())
		return r, nil
	}
	return r, docErrf(ErrUnknownDocType, d, r, "no document type keyword matched")
}

func (y *Yachtinsure) Client(d *Document, r Record) (Record, error) {
	label, cut := "Insured:", "Insured:"
	if r.Subtype == SubtypeCancel {
		label, cut = "Insured Name/ Company:", "Company:"
	}
	i, ok := findBlock(d.Pages[0], label)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "client label %q not found", label)
	}
	_, rest, _ := strings.Cut(d.Pages[0][i], cut)
	r.Client = strings.TrimSpace(rest)
	if r.Client == "" {
		return r, docErrf(ErrDocParse, d, r, "no value after client label %q", label)
	}
	return r, nil
}

func (y *Yachtinsure) Effective(d *Document, r Record) (Record, error) {
	label := "Date:"
	if r.Subtype == SubtypeCancel {
		label = "Endorsement Effective:"
	}
	i, ok := findBlock(d.Pages[0], label)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "effective date label %q not found", label)
	}
	_, rest, _ := strings.Cut(d.Pages[0][i], label)
	t, err := FindDate(rest)
	if err != nil {
		return r, docErrf(ErrDocParse, d, r, "effective date: %v", err)
	}
	r.Effective = t
	return r, nil
}

func (y *Yachtinsure) MultiStamp(d *Document, r Record) (Record, error) { return r, nil }

func (y *Yachtinsure) PolicyNumbers(d *Document, r Record) (Record, error) {
	label := "Policy Number"
	if r.Subtype == SubtypeQuote {
		label = "Quote Number"
	}
	i, ok := findBlock(d.Pages[0], label)
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "policy number label %q not found", label)
	}
	_, rest, ok := strings.Cut(d.Pages[0][i], ":")
	if !ok {
		return r, docErrf(ErrDocParse, d, r, "malformed policy number block")
	}
	number := firstToken(rest)
	if number == "" {
		return r, docErrf(ErrDocParse, d, r, "no value after policy number label")
	}
	r.PolicyNumbers = append(r.PolicyNumbers, number)
	return r, nil
}

func (y *Yachtinsure) Premiums(d *Document, r Record) (Record, error) {
	label := "Total Amount Due:"
	if r.Subtype == SubtypeCancel {
		label = "Total Return"
	}
	for _, page := range d.Pages {
		for _, block := range page {
			if !strings.Contains(block, label) {
				continue
			}
			_, rest, _ := strings.Cut(block, label)
			_, rest, ok := strings.Cut(rest, "USD")
			if !ok {
				return r, docErrf(ErrDocParse, d, r, "no USD amount in %q", block)
			}
			premium, err := formatting.ParseAmount(firstToken(rest))
			if err != nil {
				return r, docErrf(ErrDocParse, d, r, "premium: %v", err)
			}
			r.Premiums = append(r.Premiums, premium)
			return r, nil
		}
	}
	return r, docErrf(ErrDocParse, d, r, "premium label %q not found", label)
}

func (y *Yachtinsure) NeedsStamp(d *Document, r Record) bool { return true }
