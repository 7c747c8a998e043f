package config

const (
	defaultConfigPath       = "~/.config/autonameow/config.toml"
	defaultLogDir           = "~/.local/share/autonameow/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultDateFormat       = "%Y-%m-%d"
	defaultDateTimeFormat   = "%Y-%m-%dT%H%M%S"
	defaultTimeFormat       = "%H-%M-%S"
	defaultTagSeparator     = " -- "
	defaultBetweenTags      = " "
	defaultExiftoolBinary   = "exiftool"
	defaultExiftoolTimeout  = 30
	defaultPdftotextBinary  = "pdftotext"
	defaultPdftotextTimeout = 30
	defaultConfirmThreshold = 0.5
)

var defaultCompoundSuffixes = []string{
	"tar.gz", "tar.bz2", "tar.xz", "tar.lz", "tar.lzma", "tar.lzo", "tar.z", "tar.zst",
}

var defaultIgnore = []string{
	"*/.DS_Store",
	"*/.git/*",
	"*.swp",
	"*/Thumbs.db",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PersistenceDir: defaultPersistenceDir(),
			LogDir:         defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		DateTimeFormat: DateTimeFormat{
			Date:     defaultDateFormat,
			DateTime: defaultDateTimeFormat,
			Time:     defaultTimeFormat,
		},
		PostProcessing: PostProcessing{
			SanitizeFilename: true,
		},
		Filetags: Filetags{
			FilenameTagSeparator: defaultTagSeparator,
			BetweenTagSeparator:  defaultBetweenTags,
		},
		Filesystem: Filesystem{
			CompoundSuffixes: append([]string(nil), defaultCompoundSuffixes...),
			Ignore:           append([]string(nil), defaultIgnore...),
		},
		Exiftool: Exiftool{
			Enabled:        true,
			Binary:         defaultExiftoolBinary,
			TimeoutSeconds: defaultExiftoolTimeout,
		},
		Pdftotext: Pdftotext{
			Enabled:        true,
			Binary:         defaultPdftotextBinary,
			TimeoutSeconds: defaultPdftotextTimeout,
		},
		Mode: Mode{
			ConfirmThreshold: defaultConfirmThreshold,
		},
	}
}
