package carriers

import (
	"errors"
	"testing"
	"time"
)

func TestYachtinsureQuote(t *testing.T) {
	first := []string{
		"Yachtinsure Services Inc",
		"QUOTATION",
		"Insured: Eve Ocean",
		"Date: 04/01/2024 ref 5521",
		"Quote Number: YQ-1 issued today",
	}
	totals := []string{
		"Premium breakdown",
		"Total Amount Due: USD 3,500.00",
	}
	d := testDocument(t, first, totals)

	record, err := Extract(t.Context(), testLogger(), NewYachtinsure(testLogger()), d)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if record.Subtype != SubtypeQuote {
		t.Errorf("Subtype = %q, want %q", record.Subtype, SubtypeQuote)
	}
	if record.Client != "Eve Ocean" {
		t.Errorf("Client = %q, want Eve Ocean", record.Client)
	}
	if want := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC); !record.Effective.Equal(want) {
		t.Errorf("Effective = %v, want %v", record.Effective, want)
	}
	if len(record.PolicyNumbers) != 1 || record.PolicyNumbers[0] != "YQ-1" {
		t.Errorf("PolicyNumbers = %v, want [YQ-1]", record.PolicyNumbers)
	}
	// The totals section sits on a later page.
	if len(record.Premiums) != 1 || record.Premiums[0] != 3500 {
		t.Errorf("Premiums = %v, want [3500]", record.Premiums)
	}
	// Stamps go at the back of the document.
	if record.InsertIndex != 2 {
		t.Errorf("InsertIndex = %d, want 2", record.InsertIndex)
	}
}

func TestYachtinsureCancellation(t *testing.T) {
	d := testDocument(t, []string{
		"CANCELLATION ENDORSEMENT",
		"Insured Name/ Company: Frank & Co",
		"Endorsement Effective: 05/10/2024",
		"Policy Number: YP-7",
		"Total Return USD 800.00 to the insured",
	})

	record, err := Extract(t.Context(), testLogger(), NewYachtinsure(testLogger()), d)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if record.Subtype != SubtypeCancel {
		t.Errorf("Subtype = %q, want %q", record.Subtype, SubtypeCancel)
	}
	if record.Client != "Frank & Co" {
		t.Errorf("Client = %q, want Frank & Co", record.Client)
	}
	if want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC); !record.Effective.Equal(want) {
		t.Errorf("Effective = %v, want %v", record.Effective, want)
	}
	if len(record.Premiums) != 1 || record.Premiums[0] != -800 {
		t.Errorf("Premiums = %v, want [-800]", record.Premiums)
	}
	// Money-out endorsements keep the default front position.
	if record.InsertIndex != 1 {
		t.Errorf("InsertIndex = %d, want 1", record.InsertIndex)
	}
}

func TestYachtinsureUnknownDocType(t *testing.T) {
	d := testDocument(t, []string{"Yachtinsure Services Inc", "Schedule of Vessels"})
	_, err := NewYachtinsure(testLogger()).Subtype(d, Record{Carrier: CarrierYachtinsure})
	if !errors.Is(err, ErrUnknownDocType) {
		t.Fatalf("expected ErrUnknownDocType, got %v", err)
	}
}

func TestYachtinsureMissingPremium(t *testing.T) {
	d := testDocument(t, []string{
		"QUOTATION",
		"Insured: Eve Ocean",
		"Date: 04/01/2024",
		"Quote Number: YQ-1",
	})
	_, err := Extract(t.Context(), testLogger(), NewYachtinsure(testLogger()), d)
	if !errors.Is(err, ErrDocParse) {
		t.Fatalf("expected ErrDocParse, got %v", err)
	}
}
