package known

import "time"

const (
	// SpotAdvisorJSONURL is the public AWS Spot Advisor dataset.
	SpotAdvisorJSONURL = "https://spot-bid-advisor.s3.amazonaws.com/spot-advisor-data.json"
	// DatasetFileName is the local copy of the dataset inside the data dir.
	DatasetFileName = "spot-advisor-data.json"
	// StateFileName keeps the dataset checksum and HTTP caching tokens.
	StateFileName = "spotsieve.ini"
	// DataDirName is created under the system temp dir unless overridden.
	DataDirName = "spotsieve"
)

const (
	UserAgent   = "spotsieve"
	HTTPTimeout = 30 * time.Second
)

const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatText  = "text"
	FormatTable = "table"
)

const (
	OSLinux   = "Linux"
	OSWindows = "Windows"
)

// DefaultSortOrder ranks least interrupted instances first, biggest savings
// first within the same interruption range.
const DefaultSortOrder = "interrupts:asc,savings:desc"

const (
	ExitCodeOK = iota
	ExitCodeError
	ExitCodeUsage
)
