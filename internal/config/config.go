// Package config loads the runtime configuration: a YAML file created with
// defaults on first run, then REMINDFLOW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MemoryDatabase keeps all records in process memory.
	MemoryDatabase = "memory"

	defaultDatabase     = "remindflow.db"
	defaultLogLevel     = "info"
	defaultPollInterval = time.Minute
	defaultSweep        = time.Minute
	defaultArmWindow    = 5 * time.Minute
	defaultEngineBuffer = 64
)

type RuntimeConfig struct {
	// DataDir holds the database. Empty means the user config directory.
	DataDir string `yaml:"data_dir"`
	// Database is a file name inside DataDir, an absolute path, or "memory".
	Database string `yaml:"database"`
	// Timezone is an IANA name; empty or "Local" uses the system zone.
	Timezone             string        `yaml:"timezone"`
	LogLevel             string        `yaml:"log_level"`
	PollInterval         time.Duration `yaml:"poll_interval"`
	SweepInterval        time.Duration `yaml:"sweep_interval"`
	ArmWindow            time.Duration `yaml:"arm_window"`
	EngineBuffer         int           `yaml:"engine_buffer"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
}

func Default() RuntimeConfig {
	return RuntimeConfig{
		Database:             defaultDatabase,
		Timezone:             "Local",
		LogLevel:             defaultLogLevel,
		PollInterval:         defaultPollInterval,
		SweepInterval:        defaultSweep,
		ArmWindow:            defaultArmWindow,
		EngineBuffer:         defaultEngineBuffer,
		DesktopNotifications: true,
	}
}

// Normalize fills zero values so partial files still work.
func (c *RuntimeConfig) Normalize() {
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.PollInterval < time.Second {
		c.PollInterval = defaultPollInterval
	}
	if c.SweepInterval < time.Second {
		c.SweepInterval = defaultSweep
	}
	if c.ArmWindow <= 0 {
		c.ArmWindow = defaultArmWindow
	}
	if c.EngineBuffer <= 0 {
		c.EngineBuffer = defaultEngineBuffer
	}
}

// DefaultDir is the per-user directory for the config file and database.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".remindflow"
	}
	return filepath.Join(dir, "remindflow")
}

func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DatabasePath resolves Database against DataDir. It returns MemoryDatabase
// unchanged.
func (c RuntimeConfig) DatabasePath() string {
	if c.Database == MemoryDatabase || filepath.IsAbs(c.Database) {
		return c.Database
	}
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDir()
	}
	return filepath.Join(dir, c.Database)
}

func (c RuntimeConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads path, writing the defaults there with 0600 permissions when
// the file does not exist yet. Environment overrides are applied last.
func Load(path string) (RuntimeConfig, error) {
	if path == "" {
		return RuntimeConfig{}, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return RuntimeConfig{}, err
		}
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return FromEnv(cfg), err
		}
		return FromEnv(cfg), nil
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return FromEnv(cfg), nil
}

// Save writes cfg atomically through a temp file and rename.
func Save(path string, cfg RuntimeConfig) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".remindflow-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
