package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:            "test.db",
		FeedsDir:          "./feeds",
		Port:              "8080",
		WorkerCount:       2,
		SchedulerInterval: 300,
		EntryLimit:        5,
		Fetch:             true,
		UserAgent:         "Test Agent",
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.DBPath != "test.db" {
		t.Errorf("Expected db path 'test.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 300 {
		t.Errorf("Expected scheduler interval 300, got %d", cfg.SchedulerInterval)
	}
	if cfg.EntryLimit != 5 {
		t.Errorf("Expected entry limit 5, got %d", cfg.EntryLimit)
	}
	if !cfg.Fetch {
		t.Error("Expected fetch mode to be set")
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
