// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// radixctl loads a prefix table into a radix store and answers
// longest-prefix and exact-match queries against it.
//
//	radixctl --table geo.yaml lookup 10.1.2.3 2001:db8::1
//	radixctl --table acl.txt --output json dump
package main

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	envPrefix         = "RADIXCTL"
	defaultConfigName = ".radixctl"
)

// flags, shared by all subcommands
type flags struct {
	cfgFile  string
	logLevel string
	table    string
	output   string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "radixctl",
		Short:         "Query a CIDR prefix table with longest-prefix and exact match",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		if err := initConfig(rootCmd, f); err != nil {
			return err
		}
		switch f.output {
		case outputText, outputJSON:
		default:
			return fmt.Errorf("unknown output format %q, want %s or %s", f.output, outputText, outputJSON)
		}
		return nil
	}

	rootCmd.PersistentFlags().StringVar(&f.cfgFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s.yaml)", defaultConfigName))
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "error", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().StringVar(&f.table, "table", "", "prefix table, YAML (.yaml, .yml) or text lines '<prefix> <value>'")
	rootCmd.PersistentFlags().StringVar(&f.output, "output", outputText, "Output format: text, json")

	rootCmd.AddCommand(
		newLookupCmd(f),
		newExactCmd(f),
		newDumpCmd(f),
		newStatsCmd(f),
	)

	return rootCmd
}

// initConfig use config file and ENV variables if set.
func initConfig(cmd *cobra.Command, f *flags) error {
	v := viper.New()

	if f.cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(f.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".radixctl" (without extension).
		v.AddConfigPath(home)
		v.SetConfigName(defaultConfigName)
	}

	// Read environment variables that match prefix, RADIXCTL_LOG_LEVEL for --log-level
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// If a config file is found, read it in. Only an explicit one must exist.
	if err := v.ReadInConfig(); err != nil && f.cfgFile != "" {
		return fmt.Errorf("reading config %s: %w", f.cfgFile, err)
	}

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	initLogger(f.logLevel)
	log.WithField("config", v.ConfigFileUsed()).Debug("configuration loaded")

	return nil
}

func initLogger(level string) {
	ll, err := log.ParseLevel(level)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true})
}

// bindFlags applies the viper config value to the flag when the flag
// is not set and viper has a value.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error

	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) || bindErr != nil {
			return
		}

		val := v.Get(f.Name)
		switch val.(type) {
		case bool, uint, string, int32, int16, int8, int, uint32, uint64, int64, float64, float32, []string, []int:
			bindErr = cmd.PersistentFlags().Set(f.Name, fmt.Sprintf("%v", val))
		default:
			var jsoniterJson = jsoniter.ConfigCompatibleWithStandardLibrary
			b, err := jsoniterJson.Marshal(&val)
			if err != nil {
				bindErr = fmt.Errorf("can't parse flag %s into json with value %v: %w", f.Name, val, err)
				return
			}
			bindErr = cmd.PersistentFlags().Set(f.Name, string(b))
		}
	})

	return bindErr
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
