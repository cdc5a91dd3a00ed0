package constants

import "time"

const (
	AppName            = "daydash"
	DefaultKeyringUser = "export-connection"
	DefaultConfigDir   = "~/.config/daydash"
	DefaultConfigFile  = "config.yaml"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Server defaults
	DefaultListenAddr      = "127.0.0.1:5000"
	DefaultTimezone        = "Local" // Use system local timezone by default
	ServerReadTimeout      = 10 * time.Second
	ServerWriteTimeout     = 10 * time.Second
	ServerShutdownTimeout  = 5 * time.Second
	RequestIDHeader        = "X-Request-ID"
	MaxRequestBodyBytes    = 1 << 20
	DefaultSeedSampleData  = true
	DefaultRecomputeOnUndo = false

	// Snapshot constants
	MaxSnapshots       = 14
	SnapshotDirName    = "snapshots"
	SnapshotFilePrefix = "daydash-"
	SnapshotFileSuffix = ".db"
)
