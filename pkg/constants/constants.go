// Package constants provides shared constants for the ads-advisor application.
package constants

// Rule policy defaults
const (
	// MinConversionRate separates weak from healthy conversion (3%)
	MinConversionRate = 0.03

	// MaxHealthyRank is the worst placement still considered well ranked
	MaxHealthyRank = 3

	// UnrankedPosition is assumed when a product has no known rank
	UnrankedPosition = 99

	// BidDecreaseMinPercent and BidDecreaseMaxPercent bound the urgent bid cut
	BidDecreaseMinPercent = 10.0
	BidDecreaseMaxPercent = 15.0

	// BidIncreaseMinPercent and BidIncreaseMaxPercent bound the bid raise
	BidIncreaseMinPercent = 5.0
	BidIncreaseMaxPercent = 10.0

	// PriceDecreaseMinPercent and PriceDecreaseMaxPercent bound the price cut
	PriceDecreaseMinPercent = 1.0
	PriceDecreaseMaxPercent = 2.0
)

// Global settings defaults, matching the dashboard's initial controls
const (
	// DefaultDailyBudget is the default daily ad budget in lei
	DefaultDailyBudget = 45.0

	// DefaultTargetROAS is the default return-on-ad-spend target
	DefaultTargetROAS = 8.0
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyDecimals is the number of decimals shown for amounts
	CurrencyDecimals = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencySymbol is appended to formatted amounts
	CurrencySymbol = "lei"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. ADS_SETTINGS_TARGETROAS
	EnvPrefix = "ADS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
