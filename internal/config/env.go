package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// FromEnv applies REMINDFLOW_* overrides on top of base.
func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("REMINDFLOW_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("REMINDFLOW_DATABASE"); ok {
		cfg.Database = v
	}
	if v, ok := getEnvString("REMINDFLOW_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := getEnvString("REMINDFLOW_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvDuration("REMINDFLOW_POLL_INTERVAL"); ok && v >= time.Second {
		cfg.PollInterval = v
	}
	if v, ok := getEnvDuration("REMINDFLOW_SWEEP_INTERVAL"); ok && v >= time.Second {
		cfg.SweepInterval = v
	}
	if v, ok := getEnvDuration("REMINDFLOW_ARM_WINDOW"); ok && v > 0 {
		cfg.ArmWindow = v
	}
	if v, ok := getEnvInt("REMINDFLOW_ENGINE_BUFFER"); ok && v > 0 {
		cfg.EngineBuffer = v
	}
	if v, ok := getEnvBool("REMINDFLOW_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
