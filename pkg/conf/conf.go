// Package conf persists the dataset cache state between runs as a small
// INI file with a single [spot_advisor] section.
package conf

import (
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"spotsieve/pkg/models"
)

const (
	sectionName = "spot_advisor"

	keyDataChecksum     = "data_checksum"
	keyHTTPETag         = "http_etag"
	keyHTTPLastModified = "http_last_modified"
)

// LoadState reads the cache state from path. A missing file is not an
// error and yields the zero state, which forces a fresh dataset fetch.
// Surrounding quotes are kept, ETag values carry their own.
func LoadState(path string) (models.CacheState, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		PreserveSurroundedQuote: true,
	}, path)
	if err != nil {
		return models.CacheState{}, errors.Wrapf(err, "read state file '%s'", path)
	}

	section := cfg.Section(sectionName)

	return models.CacheState{
		DataChecksum:     section.Key(keyDataChecksum).String(),
		HTTPETag:         section.Key(keyHTTPETag).String(),
		HTTPLastModified: section.Key(keyHTTPLastModified).String(),
	}, nil
}

// SaveState writes the cache state to path, replacing the previous content.
func SaveState(path string, state models.CacheState) error {
	cfg := ini.Empty()
	section := cfg.Section(sectionName)
	section.Key(keyDataChecksum).SetValue(state.DataChecksum)
	section.Key(keyHTTPETag).SetValue(state.HTTPETag)
	section.Key(keyHTTPLastModified).SetValue(state.HTTPLastModified)

	if err := cfg.SaveTo(path); err != nil {
		return errors.Wrapf(err, "write state file '%s'", path)
	}

	return nil
}
