package config

import (
	"testing"
)

func TestLoadDefaultConfig(t *testing.T) {
	opts, err := GetConfig()
	if err != nil {
		t.Errorf("Error loading config: %s", err)
	}

	t.Logf(`Config
		Version: %s
		Host: %s
		Port: %d
		DSN: %s
		LogLevel: %s
		Data: %s
		`, opts.Version, opts.Host, opts.Port, opts.DSN, opts.LogLevel, opts.Data)

	if opts.Version != defaultVersion {
		t.Errorf("Version not set")
	}
	if opts.SimilarityThreshold != defaultSimilarityThreshold {
		t.Errorf("SimilarityThreshold not set")
	}
	if opts.FuzzyThreshold != defaultFuzzyThreshold {
		t.Errorf("FuzzyThreshold not set")
	}
	if opts.SearchRetries != defaultSearchRetries {
		t.Errorf("SearchRetries not set")
	}
}

func TestLoadConfigFile(t *testing.T) {
	opts, err := ParseFile("config_test.toml")
	if err != nil {
		t.Errorf("Error loading config: %s", err)
	}
	t.Logf(`Config
		Version: %s
		Host: %s
		Port: %d
		DSN: %s
		LogLevel: %s
		LogFile: %s
		`, opts.Version, opts.Host, opts.Port, opts.DSN, opts.LogLevel, opts.LogFile)
	if opts.Version != "1.0.0" {
		t.Errorf("Version not set")
	}
	if opts.Host != "127.0.0.1" {
		t.Errorf("Host not set")
	}
	if opts.LogFile != "test.log" {
		t.Errorf("LogFile not set")
	}
	if opts.Port != 2333 {
		t.Errorf("Port not set")
	}
	if opts.Environment != "production" {
		t.Errorf("Environment not set")
	}
	if len(opts.AllowedUsers) != 2 || opts.AllowedUsers[0] != 123456789 {
		t.Errorf("AllowedUsers not set, got: %v", opts.AllowedUsers)
	}
	if opts.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold not set")
	}
}

func TestParseUserList(t *testing.T) {
	ids, err := ParseUserList(" 123, 456 ,789,")
	if err != nil {
		t.Fatalf("Error parsing user list: %s", err)
	}
	if len(ids) != 3 || ids[0] != 123 || ids[2] != 789 {
		t.Errorf("Unexpected ids: %v", ids)
	}

	if _, err := ParseUserList("123,abc"); err == nil {
		t.Errorf("Expected error for non numeric id")
	}
}
