package models

// CacheState is what survives between runs alongside the dataset file: the
// checksum of the last good local copy and the HTTP validators from the last
// successful fetch. Loaded at startup, replaced wholesale after every
// synchronization.
type CacheState struct {
	DataChecksum     string
	HTTPETag         string
	HTTPLastModified string
}
