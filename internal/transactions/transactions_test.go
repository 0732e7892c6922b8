package transactions

import (
	"errors"
	"testing"
	"time"

	"github.com/quickdraw/surpluslines/internal/carriers"
)

func TestCode(t *testing.T) {
	tests := []struct {
		subtype carriers.Subtype
		want    string
	}{
		{carriers.SubtypeQuote, CodeNewBusiness},
		{carriers.SubtypeBinder, CodeNewBusiness},
		{carriers.SubtypePolicy, CodeNewBusiness},
		{carriers.SubtypeRenewal, CodeRenewal},
		{carriers.SubtypeAP, CodeAdditionalPremium},
		{carriers.SubtypeRP, CodeReturnPremium},
		{carriers.SubtypeCancel, CodeCancellation},
	}

	for _, tc := range tests {
		t.Run(string(tc.subtype), func(t *testing.T) {
			got, err := Code(tc.subtype)
			if err != nil {
				t.Fatalf("Code(%q) returned error: %v", tc.subtype, err)
			}
			if got != tc.want {
				t.Errorf("Code(%q) = %q, want %q", tc.subtype, got, tc.want)
			}
		})
	}

	t.Run("unmapped", func(t *testing.T) {
		_, err := Code(carriers.Subtype("sidecar"))
		if !errors.Is(err, ErrUnmappedSubtype) {
			t.Fatalf("expected ErrUnmappedSubtype, got %v", err)
		}
		if carriers.Recoverable(err) {
			t.Error("a mapping miss is a defect, not operator-recoverable")
		}
	})
}

func TestBuild(t *testing.T) {
	record := carriers.Record{
		Carrier:       carriers.CarrierConcept,
		Subtype:       carriers.SubtypeQuote,
		Client:        "Acme Marine LLC",
		Effective:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PolicyNumbers: []string{"Q-777", "CN-999"},
		Premiums:      []float64{8035, 2000},
	}

	payloads, err := Build(record)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(payloads) != 2 {
		t.Fatalf("Build produced %d payloads, want 2", len(payloads))
	}

	first := payloads[0]
	if first.PolicyNumber != "Q-777" || first.Premium != 8035 {
		t.Errorf("first payload = %+v, want Q-777/8035", first)
	}
	if first.Effective != "06/01/2024" {
		t.Errorf("Effective = %q, want 06/01/2024", first.Effective)
	}
	if first.CoverageCode != CoverageCode || first.TaxStatus != TaxStatus {
		t.Errorf("constants = %q/%q, want %q/%q", first.CoverageCode, first.TaxStatus, CoverageCode, TaxStatus)
	}
	if first.TransactionCode != CodeNewBusiness {
		t.Errorf("TransactionCode = %q, want %q", first.TransactionCode, CodeNewBusiness)
	}
	if first.PolicyFee != 0 {
		t.Errorf("PolicyFee = %v, want 0", first.PolicyFee)
	}

	if second := payloads[1]; second.PolicyNumber != "CN-999" || second.Premium != 2000 {
		t.Errorf("second payload = %+v, want CN-999/2000", second)
	}
}
