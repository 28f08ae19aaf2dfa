package constants

const (
	AppName            = "tripcheck"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tripcheck/tripcheck.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tripcheck-"
	BackupFileSuffix = ".db"

	// Environment variables
	EnvDBConnection = "TRIPCHECK_DB_CONNECTION"
	EnvTestPostgres = "TRIPCHECK_TEST_POSTGRES"

	// Session references accepted wherever a session ID is expected
	SessionLatest   = "latest"
	SessionPrevious = "previous"
)
