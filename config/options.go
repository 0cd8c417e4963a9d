package config

const (
	defaultVersion           = "0.1.0"
	defaultLogFile           = "logs.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultHost              = "0.0.0.0"
	defaultPort              = 8080
	defaultData              = "/var/opt/book-bot"
	defaultDSN               = defaultData + "/books.db"
	defaultEnvironment       = "development"
	defaultLLMProvider       = "openai"
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultGeminiModel       = "gemini-1.5-flash"
	defaultLLMTimeout        = 60
	defaultWorkerPoolSize    = 10
	defaultRecommendCount    = 5
	defaultSearchCandidates  = 3
	defaultSearchRetries     = 2
	// Both thresholds are empirically chosen constants from the source
	// data set, kept configurable instead of guessing a derivation.
	defaultSimilarityThreshold = 0.3
	defaultFuzzyThreshold      = 75
)

var Opts *Options

// Why use mapstructure instead of json: viper unmarshals through
// mapstructure, json field tags are not recognized.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// Version is the version of the application
	Version string `mapstructure:"version"`
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated, in MiB
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database
	DSN string `mapstructure:"dsn_uri"`
	// Host and Port are the listen address of the admin API
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Data is the directory to store data (database, csv bootstrap files)
	Data string `mapstructure:"data"`
	// AdminToken guards the admin API. Empty disables the API.
	AdminToken string `mapstructure:"admin_token"`

	// TelegramToken is the bot token issued by BotFather
	TelegramToken string `mapstructure:"telegram_token"`
	// Environment is "production" or "development".
	// The allow-list is only enforced in production.
	Environment string `mapstructure:"environment"`
	// AllowedUsers is the list of telegram user IDs allowed to use the bot
	AllowedUsers []int64 `mapstructure:"allowed_users"`

	// LLMProvider selects the text-completion backend: "openai" or "gemini"
	LLMProvider string `mapstructure:"llm_provider"`
	OpenAIKey   string `mapstructure:"openai_api_key"`
	OpenAIModel string `mapstructure:"openai_model"`
	GeminiKey   string `mapstructure:"gemini_api_key"`
	GeminiModel string `mapstructure:"gemini_model"`
	// LLMTimeout bounds a single completion call, in seconds
	LLMTimeout int `mapstructure:"llm_timeout"`

	WorkerPoolSize int `mapstructure:"worker_pool_size"`
	// RecommendCount is how many recommendations to return per request
	RecommendCount int `mapstructure:"recommend_count"`
	// SearchCandidates is how many candidate books the search oracle may return
	SearchCandidates int `mapstructure:"search_candidates"`
	// SearchRetries is the retry budget for a failed search before giving up
	SearchRetries int `mapstructure:"search_retries"`
	// SimilarityThreshold is the minimum cosine similarity for a
	// collaborative result, below it the generative fallback kicks in
	SimilarityThreshold float64 `mapstructure:"recommend_similarity_threshold"`
	// FuzzyThreshold is the minimum token-sort ratio (0-100) for the
	// title resolver to accept a fuzzy match
	FuzzyThreshold int `mapstructure:"resolver_fuzzy_threshold"`

	// BooksCSV/RatingsCSV are optional bootstrap files loaded into an
	// empty database on startup
	BooksCSV   string `mapstructure:"books_csv"`
	RatingsCSV string `mapstructure:"ratings_csv"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		Version:             defaultVersion,
		LogFile:             defaultLogFile,
		LogLevel:            defaultLogLevel,
		LogFileMaxSize:      defaultLogFileMaxSize,
		LogFileMaxBackups:   defaultLogFileMaxBackups,
		LogFileMaxAge:       defaultLogFileMaxAge,
		LogCompress:         defaultLogCompress,
		DSN:                 defaultDSN,
		Host:                defaultHost,
		Port:                defaultPort,
		Data:                defaultData,
		Environment:         defaultEnvironment,
		LLMProvider:         defaultLLMProvider,
		OpenAIModel:         defaultOpenAIModel,
		GeminiModel:         defaultGeminiModel,
		LLMTimeout:          defaultLLMTimeout,
		WorkerPoolSize:      defaultWorkerPoolSize,
		RecommendCount:      defaultRecommendCount,
		SearchCandidates:    defaultSearchCandidates,
		SearchRetries:       defaultSearchRetries,
		SimilarityThreshold: defaultSimilarityThreshold,
		FuzzyThreshold:      defaultFuzzyThreshold,
	}
	return Opts
}
