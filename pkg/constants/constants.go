// Package constants provides shared constants used throughout the amjd codebase.
// This includes timeouts, file permissions, and the default file names of the
// tabular datasets exchanged between pipeline stages.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// RequestTimeout bounds the work behind a single API request
	RequestTimeout = 20 * time.Second

	// ServerReadTimeout bounds how long the API server waits for a request
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout bounds how long a handler may take to respond
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the keep-alive idle timeout
	ServerIdleTimeout = 60 * time.Second

	// ShutdownTimeout is the grace period for draining the API server
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// DefaultDataDir is where the datasets live unless configured otherwise.
const DefaultDataDir = "data/amjd"

// Default dataset file names. Pipelines resolve them relative to the data directory.
const (
	MasterFile           = "AMJD_VALIDACJA_MASTER_AM.csv"
	MasterValidatedFile  = "AMJD_VALIDACJA_MASTER_AM_validated.csv"
	GSFCMasterFile       = "AMJD_MASTER_GSFC_BATCH6.csv"
	GSFCValidationFile   = "AMJD_VALIDACJA_GSFC_v1.csv"
	VolcanoRawFile       = "AMJD_VOLCANO_RAW.csv"
	VolcanoProcessedFile = "AMJD_VOLCANO_PROCESSED.csv"
	RawDataFile          = "AMJD_RAW_DATA.csv"
	RawMasterlikeFile    = "AMJD_RAW_DATA_MASTERLIKE.csv"
	TopoSolarFile        = "AMJD_TOPO_VISIBILITY_SOLAR.csv"
	TopoLunarFile        = "AMJD_TOPO_VISIBILITY_LUNAR.csv"
	SitesFile            = "AMJD_SITES.csv"
	EventIndexFile       = "AMJD_EVENT_INDEX.csv"
	PortfolioSummaryFile = "AMJD_PORTFOLIO_SUMMARY.csv"
	EpochReportFile      = "AMJD_EPOCH_REPORT.csv"

	// ValidatedSuffix is appended to a master table's stem by the validator.
	ValidatedSuffix = "_validated"
)

// Default server settings
const (
	DefaultServerHost = "localhost"
	DefaultServerPort = 8080
	DefaultPathPrefix = "/api/v1"
	DefaultCacheTTL   = 5 * time.Minute
)
