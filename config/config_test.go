package config

import (
	"os"
	"testing"
)

func TestFromEnvOverridesDefaults(t *testing.T) {
	os.Setenv("CAMRELAY_HOST", "192.168.1.1")
	os.Setenv("CAMRELAY_PORT", "9000")
	defer os.Unsetenv("CAMRELAY_HOST")
	defer os.Unsetenv("CAMRELAY_PORT")

	cfg := FromEnv(Default())
	if cfg.Host != "192.168.1.1" {
		t.Errorf("Host = %q, want 192.168.1.1", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
}

func TestFromEnvLeavesDefaultsWhenUnset(t *testing.T) {
	os.Unsetenv("CAMRELAY_HOST")
	os.Unsetenv("CAMRELAY_PORT")

	cfg := FromEnv(Default())
	want := Default()
	if cfg.Host != want.Host || cfg.Port != want.Port {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}
