package carriers

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDocument(t *testing.T, pages ...[]string) *Document {
	t.Helper()
	d, err := NewDocument("/drop/test.pdf", pages, nil)
	if err != nil {
		t.Fatalf("NewDocument returned error: %v", err)
	}
	return d
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		marker  string
		carrier string
	}{
		{"concept", "Concept Special Risks Ltd on behalf of underwriters", CarrierConcept},
		{"kemah", "issued through Sutton Specialty Insurance Company", CarrierKemah},
		{"yachtinsure lowercase", "yachtinsure services inc", CarrierYachtinsure},
		{"yachtinsure mixed case", "Yachtinsure Services Inc.", CarrierYachtinsure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := testDocument(t, []string{"some heading", tc.marker, "trailing block"})
			extractor, err := Classify(testLogger(), d)
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if got := extractor.Carrier(); got != tc.carrier {
				t.Errorf("Carrier() = %q, want %q", got, tc.carrier)
			}
		})
	}

	t.Run("unidentified", func(t *testing.T) {
		d := testDocument(t, []string{"Some Other Underwriter", "Policy Schedule"})
		_, err := Classify(testLogger(), d)
		if !errors.Is(err, ErrUnidentifiedCarrier) {
			t.Fatalf("expected ErrUnidentifiedCarrier, got %v", err)
		}
		if !Recoverable(err) {
			t.Error("unidentified carrier should be recoverable")
		}
	})
}

func TestDocumentPageFetch(t *testing.T) {
	t.Run("captured page", func(t *testing.T) {
		d := testDocument(t, []string{"first"}, []string{"second"})
		page, err := d.Page(t.Context(), 1)
		if err != nil {
			t.Fatalf("Page returned error: %v", err)
		}
		if page[0] != "second" {
			t.Errorf("Page(1) = %v, want [second]", page)
		}
	})

	t.Run("uncaptured page without source", func(t *testing.T) {
		d := testDocument(t, []string{"first"})
		if _, err := d.Page(t.Context(), 5); !errors.Is(err, ErrDocParse) {
			t.Errorf("expected ErrDocParse, got %v", err)
		}
	})

	t.Run("empty document rejected", func(t *testing.T) {
		if _, err := NewDocument("/drop/empty.pdf", nil, nil); !errors.Is(err, ErrDocParse) {
			t.Errorf("expected ErrDocParse, got %v", err)
		}
	})
}
