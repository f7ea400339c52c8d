package instancetype

import "strings"

// Facet describes one known series or option value: the token users select
// it by, a short description for listings, and the pattern matched against
// the corresponding facet of a parsed instance type.
//
// Patterns are RE2, so the overlap disambiguation that would naturally be a
// lookahead or lookbehind is spelled out as anchored alternatives instead.
type Facet struct {
	Label   string
	Desc    string
	Pattern string
}

// Ordering follows AWS instance type naming conventions documentation.
var seriesCatalog = []Facet{
	// 'c' must not be preceded by 'ma', it collides with 'Mac'.
	{"C", "Compute optimized", `^.?c|[^a]c|[^m]ac`},
	{"D", "Dense storage", `d`},
	// 'f' must not be preceded by 'in', it collides with 'Inf'.
	{"F", "FPGA", `^.?f|[^n]f|[^i]nf`},
	{"G", "Graphics intensive", `g`},
	{"Hpc", "High performance computing", `hpc`},
	{"Im", "Storage optimized (1 to 4 ratio of vCPU to memory)", `im`},
	{"Inf", "AWS Inferentia", `inf`},
	{"Is", "Storage optimized (1 to 6 ratio of vCPU to memory)", `is`},
	// 'i' must not start 'im', 'inf' or 'is'.
	{"I", "Storage optimized", `i$|i[^mns]|in$|in[^f]`},
	{"Mac", "macOS", `mac`},
	// 'm' outside 'im' and 'mac'.
	{"M", "General purpose", `(^|[^i])m($|[^a])|(^|[^i])ma($|[^c])`},
	// 'p' outside 'hpc'.
	{"P", "GPU accelerated", `(^|[^h])p($|[^c])`},
	// 'r' outside 'trn'.
	{"R", "Memory optimized", `(^|[^t])r($|[^n])`},
	// 't' outside 'trn' and 'vt'.
	{"T", "Burstable performance", `(^|[^v])t($|[^r])|(^|[^v])tr($|[^n])`},
	{"Trn", "AWS Trainium", `trn`},
	{"U", "High memory", `u`},
	{"VT", "Video transcoding", `vt`},
	{"X", "Memory intensive", `x`},
}

var optionsCatalog = []Facet{
	{"a", "AMD processors", `a`},
	{"b", "Block storage optimization", `b`},
	{"d", "Instance store volumes", `d`},
	// 'e' must not start 'ex', it collides with 'flex'.
	{"e", "Extra storage or memory", `e$|e[^x]`},
	{"flex", "Flex instance", `-flex`},
	{"g", "AWS Graviton processors", `g`},
	{"i", "Intel processors", `i`},
	{"n", "Network and EBS optimized", `n`},
	{"q", "Qualcomm inference accelerators", `q`},
	{"z", "High performance", `z`},
}

// Series returns the catalog of known instance type series, in listing order.
func Series() []Facet {
	return seriesCatalog
}

// Options returns the catalog of known instance type options, in listing order.
func Options() []Facet {
	return optionsCatalog
}

// FindSeries looks up a series facet by its label, case-insensitively.
func FindSeries(label string) (Facet, bool) {
	return find(seriesCatalog, label)
}

// FindOption looks up an option facet by its label, case-insensitively.
func FindOption(label string) (Facet, bool) {
	return find(optionsCatalog, label)
}

func find(catalog []Facet, label string) (Facet, bool) {
	for _, facet := range catalog {
		if strings.EqualFold(facet.Label, label) {
			return facet, true
		}
	}
	return Facet{}, false
}
