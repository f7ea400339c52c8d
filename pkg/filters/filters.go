// Package filters holds the predicates applied to spot advisor records
// during selection. Every predicate returns true when the record should
// be kept.
package filters

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"spotsieve/pkg/instancetype"
)

// FacetPatterns carries the compiled include and exclude patterns for the
// series, generation and options facets of an instance type. A nil pattern
// is inactive.
type FacetPatterns struct {
	ExcludeSeries      *regexp.Regexp
	IncludeSeries      *regexp.Regexp
	ExcludeGenerations *regexp.Regexp
	IncludeGenerations *regexp.Regexp
	ExcludeOptions     *regexp.Regexp
	IncludeOptions     *regexp.Regexp
}

// Criteria is the full set of user supplied selection constraints for one
// run. Numeric limits are closed intervals.
type Criteria struct {
	SavingsMin, SavingsMax int
	IntersMin, IntersMax   int
	VCPUMin, VCPUMax       int
	MemMin, MemMax         float64
	EMROnly                bool
	ExcludeMetal           bool
	ExcludeVM              bool
	Facets                 FacetPatterns
}

// ByRegex decides whether value should be kept. A configured include
// pattern is decisive either way and the exclude pattern is not consulted.
func ByRegex(value string, exclude, include *regexp.Regexp) bool {
	if include != nil {
		return include.MatchString(value)
	}
	if exclude != nil && exclude.MatchString(value) {
		return false
	}
	return true
}

// EMR keeps everything unless only EMR capable instances were requested.
func EMR(emrSupported, emrOnly bool) bool {
	if !emrOnly {
		return true
	}
	return emrSupported
}

// InstanceType applies the facet patterns to a decomposed instance type.
// If any facet is rejected the whole instance type is rejected.
// Instance types the classifier cannot decompose are kept.
func InstanceType(instanceType string, patterns FacetPatterns) bool {
	facets, err := instancetype.Parse(instanceType)
	if err != nil {
		return true
	}

	keepSeries := ByRegex(facets.Series, patterns.ExcludeSeries, patterns.IncludeSeries)
	keepGen := ByRegex(facets.Generation, patterns.ExcludeGenerations, patterns.IncludeGenerations)
	keepOptions := ByRegex(facets.Options, patterns.ExcludeOptions, patterns.IncludeOptions)
	return keepSeries && keepGen && keepOptions
}

// Inters checks the interruption upper bound in percent against closed limits.
func Inters(inters, min, max int) bool {
	return inters >= min && inters <= max
}

// Mem checks memory in GB against closed limits.
func Mem(memGB, min, max float64) bool {
	return memGB >= min && memGB <= max
}

// Savings checks the savings percentage against closed limits.
func Savings(savings, min, max int) bool {
	return savings >= min && savings <= max
}

// VCPU checks the vCPU count against closed limits.
func VCPU(vcpus, min, max int) bool {
	return vcpus >= min && vcpus <= max
}

// IncludeInstanceType decides between bare metal and virtual machine
// instances, recognized by the "metal" substring in the size facet. With
// both toggles off the instance type is not inspected at all.
func IncludeInstanceType(instanceType string, excludeMetal, excludeVM bool) (bool, error) {
	if !excludeMetal && !excludeVM {
		return true, nil
	}

	split := strings.Split(instanceType, ".")
	if len(split) != 2 {
		return false, errors.Errorf("unexpected instance type '%s'", instanceType)
	}

	isMetal := strings.Contains(split[1], "metal")
	if isMetal && excludeMetal {
		return false, nil
	}
	if !isMetal && excludeVM {
		return false, nil
	}

	return true, nil
}
