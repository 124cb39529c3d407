package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	dsn        string
	driver     string
	schemaFlag string
	cfgFile    string
	verbose    bool

	DB         *sql.DB
	DriverName string // "mysql", "postgres", "sqlserver" or "oracle"
	SchemaName string // empty means ask the database
	Logger     = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "db-model",
	Short: "Build a normalized schema model from database metadata",
	Long: `DB MODEL - Database Schema Model Builder

Reads tables, views, columns and stored procedures from a live database,
normalizes them into a schema model and reconciles enum columns that
share a value domain across tables and views.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log.level")
		if verbose {
			level = "debug"
		}
		logger, err := newLogger(level)
		if err != nil {
			return err
		}
		Logger = logger

		config, err := ResolveDBConfig()
		if err != nil {
			return err
		}
		DriverName = config.Driver

		DB, err = sql.Open(DriverName, config.DSN)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if err := DB.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		// An explicit schema wins; MySQL DSNs usually name the database.
		SchemaName = viper.GetString("database.schema")
		if SchemaName == "" && DriverName == "mysql" {
			if parsed, err := mysql.ParseDSN(config.DSN); err == nil {
				SchemaName = parsed.DBName
			}
		}

		Logger.Info("connected",
			zap.String("name", config.Name),
			zap.String("driver", DriverName),
			zap.String("dsn", redactDSN(DriverName, config.DSN)),
			zap.String("schema", SchemaName),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			DB.Close()
		}
		_ = Logger.Sync()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-model.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&driver, "driver", "", "database driver: mysql, postgres, sqlserver or oracle (detected from the DSN if empty)")
	RootCmd.PersistentFlags().StringVar(&schemaFlag, "schema", "", "database/schema to inspect (defaults to the connection's current one)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Bind flags to viper
	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("database.schema", RootCmd.PersistentFlags().Lookup("schema"))

	viper.SetDefault("log.level", "info")
	viper.SetDefault("settings.workers", 8)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-model")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	return cfg.Build()
}
