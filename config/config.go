package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// GetConfig loads configuration from defaults and environment variables.
// Every option can be overridden with a BOOKBOT_ prefixed variable,
// e.g. BOOKBOT_TELEGRAM_TOKEN, BOOKBOT_LOG_LEVEL.
func GetConfig() (*Options, error) {
	v := newViper()
	return unmarshal(v)
}

// ParseFile loads configuration from a TOML file, environment variables
// still take precedence over file values.
func ParseFile(path string) (*Options, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", path)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("BOOKBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keep the credential variable names the deployment already uses.
	v.BindEnv("telegram_token", "BOOKBOT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("openai_api_key", "BOOKBOT_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("gemini_api_key", "BOOKBOT_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("allowed_users", "BOOKBOT_ALLOWED_USERS", "ALLOWED_USERS")
	v.BindEnv("environment", "BOOKBOT_ENVIRONMENT", "ENVIRONMENT")

	defaults := GetDefaultOptions()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file_max_size", defaults.LogFileMaxSize)
	v.SetDefault("log_file_max_backups", defaults.LogFileMaxBackups)
	v.SetDefault("log_file_max_age", defaults.LogFileMaxAge)
	v.SetDefault("log_compress", defaults.LogCompress)
	v.SetDefault("dsn_uri", defaults.DSN)
	v.SetDefault("host", defaults.Host)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("data", defaults.Data)
	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("llm_provider", defaults.LLMProvider)
	v.SetDefault("openai_model", defaults.OpenAIModel)
	v.SetDefault("gemini_model", defaults.GeminiModel)
	v.SetDefault("llm_timeout", defaults.LLMTimeout)
	v.SetDefault("worker_pool_size", defaults.WorkerPoolSize)
	v.SetDefault("recommend_count", defaults.RecommendCount)
	v.SetDefault("search_candidates", defaults.SearchCandidates)
	v.SetDefault("search_retries", defaults.SearchRetries)
	v.SetDefault("recommend_similarity_threshold", defaults.SimilarityThreshold)
	v.SetDefault("resolver_fuzzy_threshold", defaults.FuzzyThreshold)

	return v
}

func unmarshal(v *viper.Viper) (*Options, error) {
	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	// ALLOWED_USERS arrives as a comma separated string from env
	if users := v.GetString("allowed_users"); users != "" && len(opts.AllowedUsers) == 0 {
		parsed, err := ParseUserList(users)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse allowed_users")
		}
		opts.AllowedUsers = parsed
	}
	Opts = opts
	return opts, nil
}
