package export

import (
	"reflect"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name string
		h, p int
		want []PageSlice
	}{
		{
			name: "three pages",
			h:    2500,
			p:    1000,
			want: []PageSlice{
				{Index: 0, Top: 0, Bottom: 1000, Offset: 0},
				{Index: 1, Top: 1000, Bottom: 2000, Offset: -1000},
				{Index: 2, Top: 2000, Bottom: 2500, Offset: -2000},
			},
		},
		{
			name: "shorter than a page",
			h:    800,
			p:    1000,
			want: []PageSlice{{Index: 0, Top: 0, Bottom: 800, Offset: 0}},
		},
		{
			name: "exact multiple",
			h:    2000,
			p:    1000,
			want: []PageSlice{
				{Index: 0, Top: 0, Bottom: 1000, Offset: 0},
				{Index: 1, Top: 1000, Bottom: 2000, Offset: -1000},
			},
		},
		{
			name: "equal to a page",
			h:    1000,
			p:    1000,
			want: []PageSlice{{Index: 0, Top: 0, Bottom: 1000, Offset: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.h, tt.p)
			if err != nil {
				t.Fatalf("Plan failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan(%d, %d) = %+v, want %+v", tt.h, tt.p, got, tt.want)
			}

			covered := 0
			for _, s := range got {
				covered += s.Height()
			}
			if covered != tt.h {
				t.Errorf("Slices cover %d rows, want %d", covered, tt.h)
			}
		})
	}
}

func TestPlan_Invalid(t *testing.T) {
	for _, hp := range [][2]int{{0, 100}, {-5, 100}, {100, 0}, {100, -1}} {
		if _, err := Plan(hp[0], hp[1]); err == nil {
			t.Errorf("Plan(%d, %d) expected error", hp[0], hp[1])
		}
	}
}

func TestPageLayout(t *testing.T) {
	if A4.ContentWidth() != 190 || A4.ContentHeight() != 277 {
		t.Errorf("Unexpected A4 content box %vx%v", A4.ContentWidth(), A4.ContentHeight())
	}
	if got := A4.PagePixels(1200); got != 1749 {
		t.Errorf("PagePixels(1200) = %d, want 1749", got)
	}
	if got := A4.PagePixels(0); got != 0 {
		t.Errorf("PagePixels(0) = %d, want 0", got)
	}

	if err := A4.Validate(); err != nil {
		t.Errorf("A4 should be valid: %v", err)
	}
	bad := PageLayout{WidthMM: 100, HeightMM: 100, MarginMM: 50}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error when margins consume the page")
	}
}
