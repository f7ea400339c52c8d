package instancetype

import (
	"regexp"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		instanceType string
		want         Facets
	}{
		{
			name:         "series and generation only",
			instanceType: "c5.xlarge",
			want:         Facets{Series: "c", Generation: "5", Options: "", Size: "xlarge"},
		},
		{
			name:         "options after generation",
			instanceType: "c7gn.2xlarge",
			want:         Facets{Series: "c", Generation: "7", Options: "gn", Size: "2xlarge"},
		},
		{
			name:         "dashed options",
			instanceType: "c7i-flex.large",
			want:         Facets{Series: "c", Generation: "7", Options: "i-flex", Size: "large"},
		},
		{
			name:         "no generation",
			instanceType: "u-6tb1.112xlarge",
			want:         Facets{Series: "u", Generation: "0", Options: "6tb1", Size: "112xlarge"},
		},
		{
			name:         "metal size",
			instanceType: "mac2-m2pro.metal",
			want:         Facets{Series: "mac", Generation: "2", Options: "-m2pro", Size: "metal"},
		},
		{
			name:         "mixed case input",
			instanceType: "M7G.Medium",
			want:         Facets{Series: "m", Generation: "7", Options: "g", Size: "medium"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.instanceType)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.instanceType, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.instanceType, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name         string
		instanceType string
		wantErr      string
	}{
		{
			name:         "no size separator",
			instanceType: "c5xlarge",
			wantErr:      "unexpected instance type 'c5xlarge'",
		},
		{
			name:         "too many separators",
			instanceType: "c5.x.large",
			wantErr:      "unexpected instance type 'c5.x.large'",
		},
		{
			name:         "family starts with digit",
			instanceType: "5c.xlarge",
			wantErr:      "unable to parse instance type '5c.xlarge'",
		},
		{
			name:         "family is a lone dash",
			instanceType: "-.large",
			wantErr:      "unable to parse instance type '-.large'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.instanceType)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got none", tt.instanceType)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Parse(%q) error = %q, want %q", tt.instanceType, err.Error(), tt.wantErr)
			}
		})
	}
}

// Overlapping family names must not shadow each other: selecting series M
// must not match mac or im instances, selecting C must not match mac, and
// so on down the catalog.
func TestSeriesPatternDisambiguation(t *testing.T) {
	tests := []struct {
		label  string
		series string
		want   bool
	}{
		{"C", "c", true},
		{"C", "hpc", true},
		{"C", "mac", false},
		{"F", "f", true},
		{"F", "inf", false},
		{"I", "i", true},
		{"I", "im", false},
		{"I", "inf", false},
		{"I", "is", false},
		{"M", "m", true},
		{"M", "mac", false},
		{"M", "im", false},
		{"P", "p", true},
		{"P", "hpc", false},
		{"R", "r", true},
		{"R", "trn", false},
		{"T", "t", true},
		{"T", "trn", false},
		{"T", "vt", false},
		{"Trn", "trn", true},
		{"VT", "vt", true},
		{"Mac", "mac", true},
	}
	for _, tt := range tests {
		facet, ok := FindSeries(tt.label)
		if !ok {
			t.Fatalf("FindSeries(%q): not in catalog", tt.label)
		}
		re, err := regexp.Compile(`(?i)` + facet.Pattern)
		if err != nil {
			t.Fatalf("series %q pattern %q: %v", tt.label, facet.Pattern, err)
		}
		if got := re.MatchString(tt.series); got != tt.want {
			t.Errorf("series %q pattern against %q = %v, want %v", tt.label, tt.series, got, tt.want)
		}
	}
}

func TestOptionPatternDisambiguation(t *testing.T) {
	tests := []struct {
		label   string
		options string
		want    bool
	}{
		{"e", "e", true},
		{"e", "en", true},
		{"e", "i-flex", false},
		{"flex", "i-flex", true},
		{"flex", "e", false},
		{"g", "gn", true},
		{"i", "i-flex", true},
	}
	for _, tt := range tests {
		facet, ok := FindOption(tt.label)
		if !ok {
			t.Fatalf("FindOption(%q): not in catalog", tt.label)
		}
		re, err := regexp.Compile(`(?i)` + facet.Pattern)
		if err != nil {
			t.Fatalf("option %q pattern %q: %v", tt.label, facet.Pattern, err)
		}
		if got := re.MatchString(tt.options); got != tt.want {
			t.Errorf("option %q pattern against %q = %v, want %v", tt.label, tt.options, got, tt.want)
		}
	}
}

func TestCatalogPatternsCompile(t *testing.T) {
	for _, facet := range Series() {
		if _, err := regexp.Compile(`(?i)` + facet.Pattern); err != nil {
			t.Errorf("series %q pattern does not compile: %v", facet.Label, err)
		}
	}
	for _, facet := range Options() {
		if _, err := regexp.Compile(`(?i)` + facet.Pattern); err != nil {
			t.Errorf("option %q pattern does not compile: %v", facet.Label, err)
		}
	}
}

func TestFindSeriesUnknown(t *testing.T) {
	if _, ok := FindSeries("zz"); ok {
		t.Error("FindSeries(\"zz\") = ok, want miss")
	}
	if _, ok := FindOption("metal"); ok {
		t.Error("FindOption(\"metal\") = ok, want miss")
	}
}
