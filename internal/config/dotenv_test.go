package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# comment
PORTAL_TEST_A=plain
export PORTAL_TEST_B="quoted"

not a pair
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORTAL_TEST_A", "")
	t.Setenv("PORTAL_TEST_B", "")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := os.Getenv("PORTAL_TEST_A"); got != "plain" {
		t.Errorf("PORTAL_TEST_A = %q", got)
	}
	if got := os.Getenv("PORTAL_TEST_B"); got != "quoted" {
		t.Errorf("PORTAL_TEST_B = %q", got)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORTAL_TEST_C=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORTAL_TEST_C", "env")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("PORTAL_TEST_C"); got != "env" {
		t.Errorf("env must win over file, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
