package config

import (
	"io/fs"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName            = "Go Tết"
	AppID              = "com.github.tartampluch.go-tet"
	KeyringService     = "com.github.tartampluch.go-tet"
	KeyringFeedAccount = "feed-token"
	LocalhostBindAddr  = "127.0.0.1"
	LogFileName        = "app.log"
	IconFile           = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagHeadless     = "headless"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging"
	FlagDescHeadless = "Run without the tray UI (settings from environment)"

	// Run modes, as reported in the startup log.
	ModeTray     = "tray"
	ModeHeadless = "headless"
	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// Environment (headless mode)
// -----------------------------------------------------------------------------

const (
	EnvFile         = ".env"
	EnvPort         = "GO_TET_PORT"
	EnvLanguage     = "GO_TET_LANG"
	EnvTarget       = "GO_TET_TARGET" // RFC 3339
	EnvReminderDays = "GO_TET_REMINDER_DAYS"
	EnvFeedToken    = "GO_TET_FEED_TOKEN"
)

// -----------------------------------------------------------------------------
// Countdown
// -----------------------------------------------------------------------------

const (
	// TickPeriod is the fixed recompute interval of a running countdown.
	TickPeriod = time.Second

	// RetargetInterval drives the worker that moves to next year's Tết.
	RetargetInterval = time.Hour

	StateNameIdle     = "idle"
	StateNameRunning  = "running"
	StateNameFinished = "finished"
	StateNameStopped  = "stopped"
	StateNameUnknown  = "unknown"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 560

	// Preference Keys
	PrefLanguage         = "language"
	PrefServerPort       = "server_port"
	PrefReminderEnabled  = "reminder_enabled"
	PrefReminderDays     = "reminder_days"
	PrefFeedTokenEnabled = "feed_token_enabled"
	PrefLastRun          = "last_run_version"

	// Countdown window
	CountdownWinWidth  = 480
	CountdownWinHeight = 220
	CountdownGridCols  = 4
	CountdownDigitSize = 42

	// Feed URL shown in settings
	FormatFeedURL      = "http://%s:%s%s"
	FormatFeedURLToken = "http://%s:%s%s?%s=%s"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"vi", "en"}

// -----------------------------------------------------------------------------
// UI Years Window Constants
// -----------------------------------------------------------------------------

const (
	YearsWinWidth  = 420
	YearsWinHeight = 460

	// Table Column IDs
	ColIDYear = 0
	ColIDDate = 1
	ColIDDays = 2

	// Table Layout
	ColWidthYear = 90
	ColWidthDate = 170
	ColWidthDays = 120

	DateFormatISO     = "2006-01-02"
	TablePlaceholder  = "Cell Content"
	LogMsgOpenYears   = "Opening Years Window"
	LogMsgOpenCount   = "Opening Countdown Window"
	LogMsgSorted      = "Years sorted"
	SortIconAsc       = " ▲"
	SortIconDesc      = " ▼"
	LayoutColumnsDual = 2
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinCountdown      = "win_countdown_title"
	TKeyWinYears          = "win_years_title"
	TKeyWinSettings       = "win_settings_title"
	TKeyMenuCountdown     = "menu_countdown"
	TKeyMenuYears         = "menu_years"
	TKeyMenuSettings      = "menu_settings"
	TKeyTrayStatus        = "tray_status"       // Requires Year, Count (plural)
	TKeyTrayStatusSoon    = "tray_status_soon"  // Requires Year, Clock (under a day)
	TKeyTrayStatusToday   = "tray_status_today" // Requires Year
	TKeyCountdownHeading  = "countdown_heading" // Requires Year
	TKeyCountdownFinished = "countdown_finished"
	TKeyCountdownLine     = "countdown_line" // Requires Year, Count, Clock (plural)
	TKeyUnitDays          = "unit_days"
	TKeyUnitHours         = "unit_hours"
	TKeyUnitMinutes       = "unit_minutes"
	TKeyUnitSeconds       = "unit_seconds"
	TKeyEvtSummary        = "event_summary" // Requires Year
	TKeyNotifArrived      = "notif_tet_arrived"

	// Column Headers & Formats
	TKeyColYear    = "col_year"
	TKeyColDate    = "col_date"
	TKeyColDays    = "col_days"
	TKeyFormatDate = "format_date_short" // Go layout, e.g. "Mon 02 Jan 2006"
	TKeyDaysToday  = "days_today"
	TKeyDaysPast   = "days_past"

	// Settings
	TKeyLblLanguage   = "lbl_language"
	TKeyHelpLanguage  = "help_language"
	TKeyLblPort       = "lbl_server_port"
	TKeyHelpPort      = "help_port"
	TKeyLblGeneral    = "lbl_general"
	TKeyLblNotif      = "lbl_notifications"
	TKeyLblEnableRem  = "lbl_enable_reminders"
	TKeyLblDaysBefore = "lbl_days_before"
	TKeyLblFeed       = "lbl_feed"
	TKeyLblFeedURL    = "lbl_feed_url"
	TKeyLblFeedToken  = "lbl_feed_token"
	TKeyHelpFeedToken = "help_feed_token"
	TKeyBtnResetToken = "btn_reset_token"
	TKeyBtnSave       = "btn_save"
	TKeyBtnCancel     = "btn_cancel"
	TKeyLblFooter     = "lbl_footer"

	// Validation & lookup errors
	TKeyErrPortReq     = "err_port_required"
	TKeyErrPortNum     = "err_port_number"
	TKeyErrPortRange   = "err_port_range"
	TKeyErrYearMissing = "err_year_missing" // Requires Year, Years
)

// Template data keys used by the catalogs.
const (
	TplCount = "Count"
	TplYear  = "Year"
	TplYears = "Years"
	TplClock = "Clock"
)

// -----------------------------------------------------------------------------
// Locales
// -----------------------------------------------------------------------------

const (
	LocalesDir        = "locales"
	LocalePrefix      = "active."
	LocaleSuffix      = ".json"
	YearListSeparator = ", "
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort         = "18088"
	DefaultLanguage     = "vi"
	DefaultReminderDays = 1
	MinReminderDays     = 1
	MaxReminderDays     = 30
)

// FeedNamespace seeds the name-based (SHA-1) event UIDs so they never change
// between runs.
var FeedNamespace = uuid.MustParse("6f1d4c2a-8e0b-5b7c-9a43-2d5e7f10c3b8")

// ISO8601 Duration Components for Reminders
const (
	ISONegativePrefix = "-P"
	ISODay            = "D"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Tet//Countdown//EN"
	ICalCalName   = "Tết"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gotet"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 1 * time.Hour

	FormatUIDName = "tet-%d"
)

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

const (
	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	AddrSeparator      = ":"

	// Routes
	RouteRoot      = "/"
	RouteFeed      = "/tet.ics"
	RouteHealth    = "/health"
	RouteAPI       = "/api"
	RouteYears     = "/years"
	RouteYear      = "/years/{year}"
	RouteCountdown = "/countdown"
	ParamYear      = "year"
	QueryToken     = "token"

	JSONKeyStatus = "status"
	HealthOK      = "ok"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrYearNotFound     = "no Tết date for year"
	FormatYearNotFound  = "%s %d (supported years: %s)"
	ErrYearParam        = "year must be an integer"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrReminderDays     = "reminder days must be between 0 and 30"
	ErrTargetParse      = "target must be an RFC 3339 timestamp"
	ErrLanguage         = "unsupported language"
	ErrFeedTokenParse   = "feed token flag must be a boolean"
	ErrEnvLoad          = "failed to load environment file"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrTokenRead        = "failed to read feed token from keyring"
	ErrTokenWrite       = "failed to store feed token in keyring"
	ErrTokenDelete      = "failed to delete feed token from keyring"
	ErrFeedGenerate     = "failed to generate calendar feed"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgUnauthorized = "Unauthorized"
	HTTPMsgNoCountdown  = "countdown not running"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary   = "Lunar New Year (Tết) %d"
	FallbackTrayLabel = "Go Tết"

	TitleStartupError = "Startup Error"
	MsgPortBusy       = "Port %s is busy or unavailable."

	MsgCountdownStart = "Countdown started"
	MsgCountdownStop  = "Countdown stopped"
	MsgCountdownDone  = "Countdown reached its target"
	MsgTargetMissing  = "No Tết date for the current year"
	MsgTargetChanged  = "Countdown target changed"
	MsgFeedGenerated  = "Calendar generation successful"
	MsgFeedDuration   = "Calendar generation timing"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgConfigChanged  = "Configuration changed"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgAppStarting    = "Starting application"
	MsgHeadless       = "Running headless"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgRequestServed  = "Request served"
	MsgTokenRejected  = "Feed request rejected: bad token"
	MsgTokenCreated   = "Feed token created"
	MsgTokenUnavail   = "Feed token unavailable, serving without token"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgLogFileOpen    = "Logging to file"
	MsgEnvFileMissing = "No .env file, using process environment"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyStatus    = "status_code"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyTarget    = "target"
	LogKeyRemaining = "remaining_ms"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyCount     = "count"
	LogKeyDuration  = "duration_ms"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeyReminder  = "reminder_days"
	LogKeyToken     = "token_enabled"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "build_date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
	LogKeyMode    = "mode"
	LogKeyLogFile = "log_file"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompCountdown = "countdown"
	CompTracker   = "tracker"
	CompFeed      = "feed"
	CompServer    = "server"
	CompSecret    = "secret"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
)
