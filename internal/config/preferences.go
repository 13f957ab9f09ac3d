package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultPreferencesFile is used when PREFERENCES_FILE is unset.
const DefaultPreferencesFile = "budget_config.json"

// Preferences are the user-editable settings. They are loaded once at
// startup and reloaded only after an explicit save.
type Preferences struct {
	Theme                 string  `mapstructure:"theme" json:"theme" binding:"omitempty,oneof=light dark"`
	DefaultScenario       string  `mapstructure:"default_scenario" json:"default_scenario"`
	DefaultFirstPaycheck  float64 `mapstructure:"default_first_paycheck" json:"default_first_paycheck" binding:"gte=0"`
	DefaultSecondPaycheck float64 `mapstructure:"default_second_paycheck" json:"default_second_paycheck" binding:"gte=0"`
	DefaultPeriodKind     string  `mapstructure:"default_period_kind" json:"default_period_kind" binding:"omitempty,period_kind"`
	BufferCategory        string  `mapstructure:"buffer_category" json:"buffer_category"`
	AutoSave              bool    `mapstructure:"auto_save" json:"auto_save"`
	AutoSaveDelayMS       int     `mapstructure:"auto_save_delay_ms" json:"auto_save_delay_ms" binding:"gte=0,lte=60000"`
	CurrencySymbol        string  `mapstructure:"currency_symbol" json:"currency_symbol" binding:"max=4"`
	DecimalPlaces         int     `mapstructure:"decimal_places" json:"decimal_places" binding:"gte=0,lte=4"`
	ShowPercentages       bool    `mapstructure:"show_percentages" json:"show_percentages"`
}

// DefaultPreferences returns the settings used when no file exists.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                 "dark",
		DefaultScenario:       "July-December 2025",
		DefaultFirstPaycheck:  2164.77,
		DefaultSecondPaycheck: 2154.42,
		DefaultPeriodKind:     "monthly",
		BufferCategory:        "Flex/Buffer",
		AutoSave:              false,
		AutoSaveDelayMS:       1500,
		CurrencySymbol:        "$",
		DecimalPlaces:         2,
		ShowPercentages:       true,
	}
}

// AutoSaveDelay returns the debounce window for auto-save.
func (p Preferences) AutoSaveDelay() time.Duration {
	return time.Duration(p.AutoSaveDelayMS) * time.Millisecond
}

// FormatMoney renders an amount with the configured symbol and precision.
func (p Preferences) FormatMoney(amount float64) string {
	return fmt.Sprintf("%s%.*f", p.CurrencySymbol, p.DecimalPlaces, amount)
}

func newPreferencesViper(path string) *viper.Viper {
	v := viper.New()
	d := DefaultPreferences()
	v.SetDefault("theme", d.Theme)
	v.SetDefault("default_scenario", d.DefaultScenario)
	v.SetDefault("default_first_paycheck", d.DefaultFirstPaycheck)
	v.SetDefault("default_second_paycheck", d.DefaultSecondPaycheck)
	v.SetDefault("default_period_kind", d.DefaultPeriodKind)
	v.SetDefault("buffer_category", d.BufferCategory)
	v.SetDefault("auto_save", d.AutoSave)
	v.SetDefault("auto_save_delay_ms", d.AutoSaveDelayMS)
	v.SetDefault("currency_symbol", d.CurrencySymbol)
	v.SetDefault("decimal_places", d.DecimalPlaces)
	v.SetDefault("show_percentages", d.ShowPercentages)

	v.SetConfigType("json")
	v.SetConfigFile(path)
	return v
}

// LoadPreferences reads the preferences file at path. A missing file yields
// the defaults; a malformed one is an error.
func LoadPreferences(path string) (Preferences, error) {
	v := newPreferencesViper(path)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return DefaultPreferences(), fmt.Errorf("read preferences: %w", err)
		}
	}

	var p Preferences
	if err := v.Unmarshal(&p); err != nil {
		return DefaultPreferences(), fmt.Errorf("unmarshal preferences: %w", err)
	}
	return p, nil
}

// SavePreferences writes p to path, creating parent directories as needed.
func SavePreferences(path string, p Preferences) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir preferences dir: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("theme", p.Theme)
	v.Set("default_scenario", p.DefaultScenario)
	v.Set("default_first_paycheck", p.DefaultFirstPaycheck)
	v.Set("default_second_paycheck", p.DefaultSecondPaycheck)
	v.Set("default_period_kind", p.DefaultPeriodKind)
	v.Set("buffer_category", p.BufferCategory)
	v.Set("auto_save", p.AutoSave)
	v.Set("auto_save_delay_ms", p.AutoSaveDelayMS)
	v.Set("currency_symbol", p.CurrencySymbol)
	v.Set("decimal_places", p.DecimalPlaces)
	v.Set("show_percentages", p.ShowPercentages)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
