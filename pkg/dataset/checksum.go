package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// FileChecksum returns the hex encoded SHA256 digest of the file at path.
// An unreadable or missing file yields an empty string, which callers treat
// as an untrustworthy local cache.
func FileChecksum(path string) string {
	fhandle, err := os.Open(path)
	if err != nil {
		hlog.Errorf("failed to calc SHA256 of '%s': %v", path, err)
		return ""
	}
	defer fhandle.Close()

	digest := sha256.New()
	if _, err := io.Copy(digest, fhandle); err != nil {
		hlog.Errorf("failed to calc SHA256 of '%s': %v", path, err)
		return ""
	}

	return hex.EncodeToString(digest.Sum(nil))
}

// checksumValid reports whether the file at path still matches the recorded
// checksum. An empty recorded checksum never matches and the digest is not
// even computed.
func checksumValid(path, want string) bool {
	if want == "" {
		return false
	}

	return FileChecksum(path) == want
}
