package models

// AdvisorData is the parsed Spot Advisor dataset.
//
// The document has three top-level tables: the interruption-range bands,
// static instance-type metadata, and the per region/OS advisor entries
// keyed by instance type.
type AdvisorData struct {
	Ranges        []Range                                   `json:"ranges"`
	InstanceTypes map[string]TypeInfo                       `json:"instance_types"`
	SpotAdvisor   map[string]map[string]map[string]SpotInfo `json:"spot_advisor"`
}

// HasRegion reports whether the dataset has advisor entries for region.
func (d *AdvisorData) HasRegion(region string) bool {
	_, ok := d.SpotAdvisor[region]
	return ok
}

// HasOS reports whether osName is available in region.
func (d *AdvisorData) HasOS(region, osName string) bool {
	_, ok := d.SpotAdvisor[region][osName]
	return ok
}

// Range is one interruption-frequency band, eg. {0, "<5%", 0, 5}.
type Range struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Dots  int    `json:"dots"`
	Max   int    `json:"max"`
}

// TypeInfo instance type details: vCPU cores, memory, can run in EMR
type TypeInfo struct {
	Cores int     `json:"cores"`
	Emr   bool    `json:"emr"`
	RAM   float64 `json:"ram_gb"` //nolint:tagliatelle
}

// SpotInfo is one advisor entry: savings over on-demand in percent and a
// reference into the Ranges table.
type SpotInfo struct {
	Savings  int `json:"s"`
	RangeIdx int `json:"r"`
}

// Advice is one instance type that passed filtering, enriched with savings
// and interruption data. InterMax is kept for sorting only and stays out of
// the serialized forms.
type Advice struct {
	InstanceType string  `json:"instance_type"`
	VCPUs        int     `json:"vcpus"`
	MemGB        float64 `json:"mem_gb"` //nolint:tagliatelle
	Emr          bool    `json:"emr"`
	Savings      int     `json:"savings"`
	InterLabel   string  `json:"interrupts"`
	InterMax     int     `json:"-"`
}

// RegionDetail is an AWS region with the operating systems the advisor
// covers there.
type RegionDetail struct {
	Region           string   `json:"region"`
	OperatingSystems []string `json:"operating_systems"`
}
