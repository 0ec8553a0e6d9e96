package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Schedule.Timezone != "Asia/Taipei" {
		t.Errorf("unexpected default timezone: %s", cfg.Schedule.Timezone)
	}
	if cfg.Schedule.BatchSize != 100 {
		t.Errorf("unexpected default batch size: %d", cfg.Schedule.BatchSize)
	}
	if cfg.DB.ConnMaxLifetime != time.Hour {
		t.Errorf("unexpected default conn max lifetime: %v", cfg.DB.ConnMaxLifetime)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("SCHEDULE_TIMEZONE", "UTC")
	t.Setenv("SCHEDULE_BATCH_SIZE", "50")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("port not read from environment: %s", cfg.Server.Port)
	}
	if cfg.Schedule.Timezone != "UTC" {
		t.Errorf("timezone not read from environment: %s", cfg.Schedule.Timezone)
	}
	if cfg.Schedule.BatchSize != 50 {
		t.Errorf("batch size not read from environment: %d", cfg.Schedule.BatchSize)
	}
	if cfg.DB.MaxOpenConns != 5 {
		t.Errorf("max open conns not read from environment: %d", cfg.DB.MaxOpenConns)
	}
}
