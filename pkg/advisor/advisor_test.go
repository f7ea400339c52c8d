package advisor

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"testing"

	"spotsieve/pkg/filters"
	"spotsieve/pkg/models"
)

func testData() *models.AdvisorData {
	return &models.AdvisorData{
		Ranges: []models.Range{
			{Index: 0, Label: "<5%", Dots: 0, Max: 5},
			{Index: 1, Label: "5-10%", Dots: 1, Max: 11},
		},
		InstanceTypes: map[string]models.TypeInfo{
			"m5.large":  {Cores: 2, Emr: true, RAM: 8},
			"c5.xlarge": {Cores: 4, Emr: true, RAM: 8},
			"t3.nano":   {Cores: 2, Emr: false, RAM: 0.5},
		},
		SpotAdvisor: map[string]map[string]map[string]models.SpotInfo{
			"eu-west-1": {
				"Linux": {
					"m5.large":  {Savings: 80, RangeIdx: 1},
					"c5.xlarge": {Savings: 76, RangeIdx: 0},
					"t3.nano":   {Savings: 75, RangeIdx: 0},
				},
			},
		},
	}
}

func defaultCriteria() filters.Criteria {
	return filters.Criteria{
		SavingsMin: -1,
		SavingsMax: 101,
		IntersMin:  -1,
		IntersMax:  101,
		VCPUMin:    -1,
		VCPUMax:    65535,
		MemMin:     -1,
		MemMax:     65535,
	}
}

func selectedTypes(t *testing.T, criteria filters.Criteria, data *models.AdvisorData) []string {
	t.Helper()
	results, err := Select(data, "eu-west-1", "Linux", criteria)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}

	types := make([]string, 0, len(results))
	for instanceType := range results {
		types = append(types, instanceType)
	}
	sort.Strings(types)
	return types
}

func TestSelectDefaults(t *testing.T) {
	data := testData()
	results, err := Select(data, "eu-west-1", "Linux", defaultCriteria())
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Select returned %d records, want 3", len(results))
	}

	want := models.Advice{
		InstanceType: "m5.large",
		VCPUs:        2,
		MemGB:        8,
		Emr:          true,
		Savings:      80,
		InterLabel:   "5-10%",
		InterMax:     11,
	}
	if got := results["m5.large"]; got != want {
		t.Errorf("results[m5.large] = %+v, want %+v", got, want)
	}
}

func TestSelectNumericWindows(t *testing.T) {
	tests := []struct {
		name     string
		criteria func(*filters.Criteria)
		want     []string
	}{
		{
			name:     "savings floor",
			criteria: func(c *filters.Criteria) { c.SavingsMin = 76 },
			want:     []string{"c5.xlarge", "m5.large"},
		},
		{
			name:     "interruption ceiling",
			criteria: func(c *filters.Criteria) { c.IntersMax = 5 },
			want:     []string{"c5.xlarge", "t3.nano"},
		},
		{
			name:     "vcpu floor",
			criteria: func(c *filters.Criteria) { c.VCPUMin = 4 },
			want:     []string{"c5.xlarge"},
		},
		{
			name:     "memory ceiling",
			criteria: func(c *filters.Criteria) { c.MemMax = 1 },
			want:     []string{"t3.nano"},
		},
		{
			name:     "emr only",
			criteria: func(c *filters.Criteria) { c.EMROnly = true },
			want:     []string{"c5.xlarge", "m5.large"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria := defaultCriteria()
			tt.criteria(&criteria)
			got := selectedTypes(t, criteria, testData())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("selected %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectMetalExclusivity(t *testing.T) {
	data := testData()
	data.InstanceTypes["m7i.metal-24xl"] = models.TypeInfo{Cores: 96, Emr: false, RAM: 384}
	data.SpotAdvisor["eu-west-1"]["Linux"]["m7i.metal-24xl"] = models.SpotInfo{Savings: 60, RangeIdx: 0}

	criteria := defaultCriteria()
	criteria.ExcludeMetal = true
	got := selectedTypes(t, criteria, data)
	want := []string{"c5.xlarge", "m5.large", "t3.nano"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exclude metal selected %v, want %v", got, want)
	}

	criteria = defaultCriteria()
	criteria.ExcludeVM = true
	got = selectedTypes(t, criteria, data)
	want = []string{"m7i.metal-24xl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exclude vm selected %v, want %v", got, want)
	}
}

func TestSelectFacetPatterns(t *testing.T) {
	criteria := defaultCriteria()
	criteria.Facets.IncludeSeries = regexp.MustCompile(`(?i)^.?c|[^a]c|[^m]ac`)
	got := selectedTypes(t, criteria, testData())
	want := []string{"c5.xlarge"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("include series c selected %v, want %v", got, want)
	}

	criteria = defaultCriteria()
	criteria.Facets.ExcludeGenerations = regexp.MustCompile(`(?i)5`)
	got = selectedTypes(t, criteria, testData())
	want = []string{"t3.nano"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exclude generation 5 selected %v, want %v", got, want)
	}
}

func TestSelectMissingRange(t *testing.T) {
	data := testData()
	data.SpotAdvisor["eu-west-1"]["Linux"]["m5.large"] = models.SpotInfo{Savings: 80, RangeIdx: 9}

	_, err := Select(data, "eu-west-1", "Linux", defaultCriteria())
	if err == nil {
		t.Fatal("Select expected ProcessingError, got none")
	}

	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("Select error type = %T, want *ProcessingError", err)
	}
	if perr.RangeIndex != 9 || perr.InstanceType != "m5.large" {
		t.Errorf("ProcessingError = %+v, want range 9 on m5.large", perr)
	}

	want := "interrupt range '9' for instance 'm5.large', OS 'Linux', region 'eu-west-1' is missing"
	if err.Error() != want {
		t.Errorf("error message = %q, want %q", err.Error(), want)
	}
}

func TestSelectUnknownRegion(t *testing.T) {
	results, err := Select(testData(), "mars-north-1", "Linux", defaultCriteria())
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Select on unknown region returned %d records, want 0", len(results))
	}
}

func TestRegions(t *testing.T) {
	data := testData()
	data.SpotAdvisor["us-east-1"] = map[string]map[string]models.SpotInfo{
		"Windows": {},
		"Linux":   {},
	}

	results := Regions(data)
	if len(results) != 2 {
		t.Fatalf("Regions returned %d entries, want 2", len(results))
	}

	want := models.RegionDetail{
		Region:           "us-east-1",
		OperatingSystems: []string{"Linux", "Windows"},
	}
	if got := results["us-east-1"]; !reflect.DeepEqual(got, want) {
		t.Errorf("results[us-east-1] = %+v, want %+v", got, want)
	}
}
