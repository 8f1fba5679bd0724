package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"dario.cat/mergo"
	"github.com/ghodss/yaml"
)

// UserSettings lists the currencies and tickers shown on the overview.
// The file may be JSON or YAML.
type UserSettings struct {
	UserCurrencies []string `json:"user_currencies"`
	UserStocks     []string `json:"user_stocks"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		UserCurrencies: []string{"USD", "EUR"},
		UserStocks:     []string{"AAPL", "AMZN", "GOOGL", "MSFT", "TSLA"},
	}
}

// LoadSettings reads the settings file. A missing file yields the defaults;
// lists left empty in the file are filled from the defaults too.
func LoadSettings(filename string) (*UserSettings, error) {
	settings := UserSettings{}

	raw, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read settings %s: %w", filename, err)
	default:
		if err := yaml.Unmarshal(raw, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", filename, err)
		}
	}

	if err := mergo.Merge(&settings, DefaultSettings()); err != nil {
		return nil, fmt.Errorf("failed to merge default settings: %w", err)
	}
	return &settings, nil
}
