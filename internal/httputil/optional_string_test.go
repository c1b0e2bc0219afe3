package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalString_UnmarshalJSON(t *testing.T) {
	type payload struct {
		Notes OptionalString `json:"notes"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantNil     bool
		wantValue   string
	}{
		{
			name:        "absent field",
			body:        `{}`,
			wantPresent: false,
		},
		{
			name:        "explicit null",
			body:        `{"notes": null}`,
			wantPresent: true,
			wantNil:     true,
		},
		{
			name:        "empty string",
			body:        `{"notes": ""}`,
			wantPresent: true,
			wantValue:   "",
		},
		{
			name:        "value",
			body:        `{"notes": "hello"}`,
			wantPresent: true,
			wantValue:   "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal(%q) error = %v", tt.body, err)
			}
			if p.Notes.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", p.Notes.Present, tt.wantPresent)
			}
			if tt.wantPresent && tt.wantNil && p.Notes.Value != nil {
				t.Errorf("Value = %v, want nil", *p.Notes.Value)
			}
			if tt.wantPresent && !tt.wantNil {
				if p.Notes.Value == nil || *p.Notes.Value != tt.wantValue {
					t.Errorf("Value = %v, want %q", p.Notes.Value, tt.wantValue)
				}
			}
		})
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var o OptionalString
	if err := json.Unmarshal([]byte(`42`), &o); err == nil {
		t.Error("expected error for non-string value")
	}
}
