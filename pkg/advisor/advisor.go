// Package advisor selects spot instance recommendations from the dataset
// by joining the per region pricing table with instance type metadata and
// the interruption range lookup.
package advisor

import (
	"fmt"
	"sort"

	"spotsieve/pkg/filters"
	"spotsieve/pkg/models"
)

// ProcessingError reports referentially broken data: a record that made it
// through filtering refers to an interruption range the dataset does not
// define.
type ProcessingError struct {
	RangeIndex   int
	InstanceType string
	OS           string
	Region       string
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("interrupt range '%d' for instance '%s', OS '%s', region '%s' is missing",
		e.RangeIndex, e.InstanceType, e.OS, e.Region)
}

// Select returns the advice records for one region and OS that pass all
// criteria, keyed by instance type. Ordering is left to the formatter.
//
// An unknown region or OS yields an empty result, callers are expected to
// validate both up front for a proper error message.
func Select(data *models.AdvisorData, region, osName string, criteria filters.Criteria) (map[string]models.Advice, error) {
	interrupts := make(map[int]models.Range, len(data.Ranges))
	for _, interRange := range data.Ranges {
		interrupts[interRange.Index] = interRange
	}

	// Pre-filter on savings and interruptions. A dangling range index reads
	// as the zero Range here and is caught below once the record survives
	// the remaining filters.
	available := make(map[string]models.SpotInfo)
	for instanceType, spotInfo := range data.SpotAdvisor[region][osName] {
		keepSavings := filters.Savings(spotInfo.Savings, criteria.SavingsMin, criteria.SavingsMax)
		keepInters := filters.Inters(interrupts[spotInfo.RangeIdx].Max, criteria.IntersMin, criteria.IntersMax)
		if keepSavings && keepInters {
			available[instanceType] = spotInfo
		}
	}

	results := make(map[string]models.Advice, len(available))
	for instanceType, typeInfo := range data.InstanceTypes {
		spotInfo, ok := available[instanceType]
		if !ok {
			continue
		}

		keep, err := filters.IncludeInstanceType(instanceType, criteria.ExcludeMetal, criteria.ExcludeVM)
		if err != nil {
			return nil, err
		}
		if !keep ||
			!filters.VCPU(typeInfo.Cores, criteria.VCPUMin, criteria.VCPUMax) ||
			!filters.Mem(typeInfo.RAM, criteria.MemMin, criteria.MemMax) ||
			!filters.EMR(typeInfo.Emr, criteria.EMROnly) ||
			!filters.InstanceType(instanceType, criteria.Facets) {
			continue
		}

		interRange, ok := interrupts[spotInfo.RangeIdx]
		if !ok {
			return nil, &ProcessingError{
				RangeIndex:   spotInfo.RangeIdx,
				InstanceType: instanceType,
				OS:           osName,
				Region:       region,
			}
		}

		results[instanceType] = models.Advice{
			InstanceType: instanceType,
			VCPUs:        typeInfo.Cores,
			MemGB:        typeInfo.RAM,
			Emr:          typeInfo.Emr,
			Savings:      spotInfo.Savings,
			InterLabel:   interRange.Label,
			InterMax:     interRange.Max,
		}
	}

	return results, nil
}

// Regions lists every region in the dataset with its available operating
// systems, sorted by name within each region.
func Regions(data *models.AdvisorData) map[string]models.RegionDetail {
	results := make(map[string]models.RegionDetail, len(data.SpotAdvisor))
	for region, systems := range data.SpotAdvisor {
		names := make([]string, 0, len(systems))
		for osName := range systems {
			names = append(names, osName)
		}
		sort.Strings(names)

		results[region] = models.RegionDetail{
			Region:           region,
			OperatingSystems: names,
		}
	}

	return results
}
