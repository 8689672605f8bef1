package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	manager, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}

	cfg := manager.Get()
	if cfg.Server.Port != defaultConfig.Server.Port {
		t.Errorf("unexpected default port %d", cfg.Server.Port)
	}
	if len(cfg.Watches) != 0 {
		t.Errorf("default config must not arm watches, got %d", len(cfg.Watches))
	}
}

func TestLoad_ReadsYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 4040
records:
  limit: 100
watches:
  - path: /data
    glob: "*.txt"
    trigger: created
    action:
      kind: command
      command: echo hi
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	manager, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := manager.Get()
	if cfg.Server.Port != 4040 {
		t.Errorf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Records.Limit != 100 {
		t.Errorf("unexpected record limit %d", cfg.Records.Limit)
	}
	if len(cfg.Watches) != 1 || cfg.Watches[0].Glob != "*.txt" {
		t.Errorf("unexpected watches %+v", cfg.Watches)
	}
}

func TestLoad_RejectsInvalidWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
watches:
  - path: /data
    glob: "*.txt"
    trigger: created
    action:
      kind: carrier-pigeon
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation to reject an unknown action kind")
	}
}

func TestLoad_TelegramTokenFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
telegram:
  enabled: true
  token: from-file
  chat_id: 42
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DIRWATCH_TELEGRAM_TOKEN", "from-env")

	manager, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := manager.Get().Telegram.Token; got != "from-env" {
		t.Errorf("environment must win, got %q", got)
	}
}
