package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sampleConfig struct {
	Name  string `split_words:"true" required:"true"`
	Limit int    `split_words:"true" default:"3"`
}

func (c *sampleConfig) Validate() error {
	if c.Limit < 1 {
		return errors.New("limit must be positive")
	}
	return nil
}

func TestNewDecodesPrefix(t *testing.T) {
	t.Setenv("CFGTEST_NAME", "crm")

	conf, err := New[sampleConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "crm" || conf.Limit != 3 {
		t.Fatalf("unexpected config: %#v", conf)
	}
}

func TestNewRunsValidate(t *testing.T) {
	t.Setenv("CFGBAD_NAME", "crm")
	t.Setenv("CFGBAD_LIMIT", "0")

	if _, err := New[sampleConfig]("CFGBAD"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewMissingRequired(t *testing.T) {
	if _, err := New[sampleConfig]("CFGMISSING"); err == nil {
		t.Fatal("expected error for missing required field")
	}
}

func TestExportEnvironmentKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CFGFILE_FROM_FILE=file\nCFGFILE_OVERRIDDEN=file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("CFGFILE_OVERRIDDEN", "env")
	t.Cleanup(func() { _ = os.Unsetenv("CFGFILE_FROM_FILE") })

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	if got := os.Getenv("CFGFILE_FROM_FILE"); got != "file" {
		t.Fatalf("CFGFILE_FROM_FILE = %q, want file", got)
	}
	if got := os.Getenv("CFGFILE_OVERRIDDEN"); got != "env" {
		t.Fatalf("CFGFILE_OVERRIDDEN = %q, want env", got)
	}
}

func TestExportEnvironmentIfExistsMissingFile(t *testing.T) {
	if err := exportEnvironmentIfExists(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected nil for a missing file, got %v", err)
	}
}
