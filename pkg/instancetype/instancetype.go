// Package instancetype decomposes EC2 instance type identifiers such as
// "c7gn.2xlarge" into series, generation, options and size facets, and
// carries the fixed catalogs used to build facet include/exclude matchers.
package instancetype

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	// eg. 'c7i-flex' -> series 'c', gen '7', options 'i-flex'
	reSeriesGenOpts = regexp.MustCompile(`(?i)^(?P<series>[a-z]+)(?P<gen>[0-9]+)(?P<opts>.*)`)
	// eg. 'u-6tb1' -> series 'u', options '6tb1', no generation group
	reSeriesOpts = regexp.MustCompile(`(?i)^(?P<series>[a-z]+)-(?P<opts>.+)`)
)

// Facets is the decomposed form of an instance type identifier. Generation
// defaults to "0" for families without a numeric generation, eg. 'u-6tb1'.
type Facets struct {
	Series     string
	Generation string
	Options    string
	Size       string
}

// Parse splits an instance type identifier into its facets. All facet
// values come back lower-cased for matching.
func Parse(instanceType string) (Facets, error) {
	split := strings.Split(instanceType, ".")
	if len(split) != 2 {
		return Facets{}, errors.Errorf("unexpected instance type '%s'", instanceType)
	}

	family, size := split[0], split[1]
	if m := reSeriesGenOpts.FindStringSubmatch(family); m != nil {
		return Facets{
			Series:     strings.ToLower(m[1]),
			Generation: m[2],
			Options:    strings.ToLower(m[3]),
			Size:       strings.ToLower(size),
		}, nil
	}
	if m := reSeriesOpts.FindStringSubmatch(family); m != nil {
		return Facets{
			Series:     strings.ToLower(m[1]),
			Generation: "0",
			Options:    strings.ToLower(m[2]),
			Size:       strings.ToLower(size),
		}, nil
	}

	return Facets{}, errors.Errorf("unable to parse instance type '%s'", instanceType)
}
