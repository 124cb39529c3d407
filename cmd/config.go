package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

var errNoDatabases = errors.New("no databases configured")

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}
	if len(configs) == 0 {
		return nil, errNoDatabases
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}
	if activeConfig.Driver == "" {
		activeConfig.Driver = detectDriver(activeConfig.DSN)
	}

	return activeConfig, nil
}

// ResolveDBConfig picks the connection to inspect: a --dsn flag first, then
// the active entry of the databases list, then database.dsn from the config.
func ResolveDBConfig() (*DBConfig, error) {
	if !RootCmd.PersistentFlags().Changed("dsn") {
		active, err := GetActiveDBConfig()
		if err == nil {
			return active, nil
		}
		if !errors.Is(err, errNoDatabases) {
			return nil, err
		}
	}

	connStr := viper.GetString("database.dsn")
	if connStr == "" {
		return nil, fmt.Errorf("database.dsn is required (via flag, config or an active databases entry)")
	}
	driverName := viper.GetString("database.driver")
	if driverName == "" {
		driverName = detectDriver(connStr)
	}
	return &DBConfig{
		Name:   "CLI Wrapper",
		Driver: driverName,
		DSN:    connStr,
		Active: true,
	}, nil
}

// detectDriver guesses the driver from the shape of the DSN.
func detectDriver(connStr string) string {
	switch {
	case strings.HasPrefix(connStr, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(connStr, "oracle://"):
		return "oracle"
	case strings.Contains(connStr, "postgres") || strings.Contains(connStr, "sslmode"):
		return "postgres"
	default:
		return "mysql"
	}
}

// redactDSN hides the password of a DSN before it is logged.
func redactDSN(driverName, connStr string) string {
	if driverName == "mysql" {
		if cfg, err := mysql.ParseDSN(connStr); err == nil {
			if cfg.Passwd != "" {
				cfg.Passwd = "xxxxx"
			}
			return cfg.FormatDSN()
		}
	}
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		return u.Redacted()
	}
	return "[REDACTED]"
}
