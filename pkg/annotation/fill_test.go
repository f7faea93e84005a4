package annotation

import "testing"

func TestParseFillState(t *testing.T) {
	tests := []struct {
		in      string
		want    FillState
		wantErr bool
	}{
		{"full", FillFull, false},
		{" Partial ", FillPartial, false},
		{"EMPTY", FillEmpty, false},
		{"half", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFillState(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFillState(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFillState(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSampleHas(t *testing.T) {
	s := Sample{ID: "s", HasFull: true, HasPartialClean: true, HasEmpty: true, HasEmptyClean: true}
	tests := []struct {
		fill      FillState
		annotated bool
		want      bool
	}{
		{FillFull, true, true},
		{FillFull, false, false},
		{FillPartial, true, false},
		{FillPartial, false, true},
		{FillEmpty, true, true},
		{FillEmpty, false, true},
		{FillState("other"), true, false},
	}
	for _, tt := range tests {
		if got := s.Has(tt.fill, tt.annotated); got != tt.want {
			t.Errorf("Has(%q, %v) = %v, want %v", tt.fill, tt.annotated, got, tt.want)
		}
	}
}
