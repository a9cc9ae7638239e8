package constants

import "time"

const (
	AppName            = "hayati"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/hayati"
	DefaultConfigPath  = "~/.config/hayati/hayati.db"
	DefaultConfigFile  = "config"
	EnvPrefix          = "HAYATI"
	EnvDBConnection    = "HAYATI_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the date format used for day keys (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format used for prayer times and reminders (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is the fixed-width UTC layout used for stored timestamps.
	// Fixed width keeps lexical and chronological order identical.
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "hayati-"
	BackupFileSuffix = ".db"

	// Notifier constants
	NotifierLockfileName     = "hayati-notifier.lock"
	NotificationDurationMs   = 5000
	TrayAppIdentifier        = "com.julianstephens.hayati"
	TrayExecutablePrefix     = "hayati-tray"
	DefaultNotifyRatePerMin  = 10
	NotifierSecretHeader     = "X-Hayati-Secret"
	NotifierRequestTimeout   = 3 * time.Second
	PrayerPollInterval       = time.Minute
	DefaultStoreTimeout      = 5 * time.Second
	DefaultAPIAddr           = "127.0.0.1:7420"
	DefaultAPIAllowedOrigins = "http://localhost:5173"

	// Export format version
	ExportVersion = "1.0"
)
