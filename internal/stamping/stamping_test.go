package stamping

import (
	"encoding/json"
	"testing"
)

func TestStampedPath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"plain", "/drop/quote.pdf", "/out/quote__stamped.pdf"},
		{"dotted stem", "/drop/policy.v2.pdf", "/out/policy.v2__stamped.pdf"},
		{"no extension", "/drop/binder", "/out/binder__stamped.pdf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StampedPath("/out", tc.source); got != tc.want {
				t.Errorf("StampedPath(/out, %q) = %q, want %q", tc.source, got, tc.want)
			}
		})
	}
}

func TestFormJSON(t *testing.T) {
	form := Form{
		Tax:          "49.38",
		ServiceFee:   "0.59",
		SubtotalFees: "49.97",
		TotalCost:    "1,084.97",
		InsuredName:  "John Doe",
		PolicyNumber: "Q-12345",
		Premium:      "1,035.00",
		PolicyFee:    "0.00",
	}

	data, err := formJSON(form.fields())
	if err != nil {
		t.Fatalf("formJSON returned error: %v", err)
	}

	var payload struct {
		Forms []struct {
			TextField []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"textfield"`
		} `json:"forms"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(payload.Forms) != 1 {
		t.Fatalf("payload has %d forms, want 1", len(payload.Forms))
	}

	values := map[string]string{}
	for _, field := range payload.Forms[0].TextField {
		values[field.Name] = field.Value
	}
	want := map[string]string{
		"tax":          "49.38",
		"service_fee":  "0.59",
		"insured_name": "John Doe",
		"policy_num":   "Q-12345",
		"premium":      "1,035.00",
		"total_cost":   "1,084.97",
	}
	for name, value := range want {
		if values[name] != value {
			t.Errorf("field %q = %q, want %q", name, values[name], value)
		}
	}
	if len(values) != 13 {
		t.Errorf("payload carries %d fields, want 13", len(values))
	}
}
