// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/ads-advisor/pkg/constants"
	"github.com/iwvelando/ads-advisor/pkg/product"
	"github.com/iwvelando/ads-advisor/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for ads-advisor.
type Configuration struct {
	Settings product.Settings `yaml:"settings" mapstructure:"settings"`
	Policy   PolicyConfig     `yaml:"policy,omitempty" mapstructure:"policy"`
	Products []product.Row    `yaml:"products" mapstructure:"products"`
	Logging  LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output   OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("settings.dailyBudget", constants.DefaultDailyBudget)
	v.SetDefault("settings.targetROAS", constants.DefaultTargetROAS)
	v.SetDefault("settings.autoOptimize", false)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	products := make([]validation.ProductInfo, 0, len(c.Products))
	for _, row := range c.Products {
		products = append(products, validation.ProductInfo{
			SKU:                row.SKU,
			Stock:              row.Stock,
			Clicks:             row.Clicks,
			Conversions:        row.Conversions,
			AdCost:             row.AdCost,
			HasRank:            row.Rank != nil,
			HasCompetitorPrice: row.BestCompetitorPrice != nil,
			ProfitPerUnit:      row.ProfitPerUnit,
		})
	}

	validator := validation.CatalogValidator{
		Products:    products,
		DailyBudget: c.Settings.DailyBudget,
	}
	return validator.ValidateAll()
}
