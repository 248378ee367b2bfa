// Package settings holds the application settings: a typed object with a
// fixed default instance, persisted values merged over a fresh copy of it.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/remindflow/internal/model"
)

var ErrUnknownKey = errors.New("settings: unknown key")

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeCustom Theme = "custom"
)

type Notification struct {
	Enabled              bool   `json:"enabled"`
	DefaultMinutesBefore int    `json:"defaultMinutesBefore"`
	DefaultSound         string `json:"defaultSound"`
	// DisplayDuration is in seconds.
	DisplayDuration int `json:"displayDuration"`
	// RepeatInterval is in minutes.
	RepeatInterval int `json:"repeatInterval"`
}

type ColorScheme struct {
	High   string `json:"high"`
	Medium string `json:"medium"`
	Low    string `json:"low"`
}

type Display struct {
	FontSize    FontSize    `json:"fontSize"`
	Theme       Theme       `json:"theme"`
	ColorScheme ColorScheme `json:"colorScheme"`
}

type Defaults struct {
	Category model.Category `json:"category"`
}

type Settings struct {
	Notification Notification `json:"notification"`
	Display      Display      `json:"display"`
	Defaults     Defaults     `json:"defaults"`
}

// Default returns a new copy of the built-in settings.
func Default() Settings {
	return Settings{
		Notification: Notification{
			Enabled:              true,
			DefaultMinutesBefore: model.DefaultMinutesBefore,
			DefaultSound:         model.DefaultSound,
			DisplayDuration:      10,
			RepeatInterval:       5,
		},
		Display: Display{
			FontSize: FontMedium,
			Theme:    ThemeLight,
			ColorScheme: ColorScheme{
				High:   "#ef4444",
				Medium: "#f59e0b",
				Low:    "#10b981",
			},
		},
		Defaults: Defaults{Category: model.CategoryPersonal},
	}
}

// Merge decodes raw over a fresh copy of the defaults, so keys missing from
// raw keep their default values. Out-of-range values are reset.
func Merge(raw []byte) (Settings, error) {
	out := Default()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Default(), fmt.Errorf("settings: decode: %w", err)
	}
	return out.normalized(), nil
}

func (s Settings) normalized() Settings {
	def := Default()
	n := &s.Notification
	if n.DefaultMinutesBefore < 0 {
		n.DefaultMinutesBefore = def.Notification.DefaultMinutesBefore
	}
	if strings.TrimSpace(n.DefaultSound) == "" {
		n.DefaultSound = def.Notification.DefaultSound
	}
	if n.DisplayDuration <= 0 {
		n.DisplayDuration = def.Notification.DisplayDuration
	}
	if n.RepeatInterval <= 0 {
		n.RepeatInterval = def.Notification.RepeatInterval
	}
	switch s.Display.FontSize {
	case FontSmall, FontMedium, FontLarge:
	default:
		s.Display.FontSize = def.Display.FontSize
	}
	switch s.Display.Theme {
	case ThemeLight, ThemeDark, ThemeCustom:
	default:
		s.Display.Theme = def.Display.Theme
	}
	if !s.Defaults.Category.IsValid() {
		s.Defaults.Category = def.Defaults.Category
	}
	return s
}

// Keys lists the dotted paths accepted by Set.
var Keys = []string{
	"notification.enabled",
	"notification.defaultMinutesBefore",
	"notification.defaultSound",
	"notification.displayDuration",
	"notification.repeatInterval",
	"display.fontSize",
	"display.theme",
	"display.colorScheme.high",
	"display.colorScheme.medium",
	"display.colorScheme.low",
	"defaults.category",
}

// Set assigns one dotted key from its text form and returns the updated copy.
func (s Settings) Set(key, value string) (Settings, error) {
	value = strings.TrimSpace(value)
	var err error
	switch key {
	case "notification.enabled":
		s.Notification.Enabled, err = strconv.ParseBool(value)
	case "notification.defaultMinutesBefore":
		s.Notification.DefaultMinutesBefore, err = parseNonNegative(value)
	case "notification.defaultSound":
		s.Notification.DefaultSound = value
	case "notification.displayDuration":
		s.Notification.DisplayDuration, err = parseNonNegative(value)
	case "notification.repeatInterval":
		s.Notification.RepeatInterval, err = parseNonNegative(value)
	case "display.fontSize":
		s.Display.FontSize = FontSize(value)
	case "display.theme":
		s.Display.Theme = Theme(value)
	case "display.colorScheme.high":
		s.Display.ColorScheme.High = value
	case "display.colorScheme.medium":
		s.Display.ColorScheme.Medium = value
	case "display.colorScheme.low":
		s.Display.ColorScheme.Low = value
	case "defaults.category":
		c := model.Category(value)
		if !c.IsValid() {
			return s, fmt.Errorf("%w: %q", model.ErrInvalidCategory, value)
		}
		s.Defaults.Category = c
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err != nil {
		return s, fmt.Errorf("settings: %s: %w", key, err)
	}
	return s.normalized(), nil
}

// Get returns the text form of one dotted key.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "notification.enabled":
		return strconv.FormatBool(s.Notification.Enabled), nil
	case "notification.defaultMinutesBefore":
		return strconv.Itoa(s.Notification.DefaultMinutesBefore), nil
	case "notification.defaultSound":
		return s.Notification.DefaultSound, nil
	case "notification.displayDuration":
		return strconv.Itoa(s.Notification.DisplayDuration), nil
	case "notification.repeatInterval":
		return strconv.Itoa(s.Notification.RepeatInterval), nil
	case "display.fontSize":
		return string(s.Display.FontSize), nil
	case "display.theme":
		return string(s.Display.Theme), nil
	case "display.colorScheme.high":
		return s.Display.ColorScheme.High, nil
	case "display.colorScheme.medium":
		return s.Display.ColorScheme.Medium, nil
	case "display.colorScheme.low":
		return s.Display.ColorScheme.Low, nil
	case "defaults.category":
		return string(s.Defaults.Category), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

func parseNonNegative(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must be >= 0, got %d", n)
	}
	return n, nil
}

// ColorFor returns the configured colour for a priority.
func (d Display) ColorFor(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return d.ColorScheme.High
	case model.PriorityLow:
		return d.ColorScheme.Low
	default:
		return d.ColorScheme.Medium
	}
}
