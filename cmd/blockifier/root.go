package main

import (
	"context"
	"fmt"
	"io"

	"github.com/NethermindEth/blockifier/utils"
	"github.com/NethermindEth/blockifier/validator"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configF      = "config"
	logLevelF    = "log-level"
	colourF      = "colour"
	dbPathF      = "db-path"
	outputF      = "output"
	metricsFileF = "metrics-file"
	constantsF   = "versioned-constants"

	defaultConfig      = ""
	defaultLogLevel    = utils.INFO
	defaultColour      = true
	defaultDBPath      = ""
	defaultOutput      = "table"
	defaultMetricsFile = ""
	defaultConstants   = ""

	configFlagUsage   = "The YAML configuration file."
	logLevelFlagUsage = "Options: debug, info, warn, error."
	colourUsage       = "Use `--colour=false` to disable colourful logs."
	dbPathUsage       = "Location of the pebble database the scenario is replayed into. " +
		"An in-memory database is used when empty."
	outputUsage      = "Output format of the block reports. Options: table, json."
	metricsFileUsage = "Write the prometheus metrics of the run to this file in text format."
	constantsUsage   = "JSON file of versioned constants overriding those of the scenario's protocol version."
)

// Config is the CLI configuration, loaded from flags and the YAML config file
// with flags taking precedence.
type Config struct {
	LogLevel      utils.LogLevel `mapstructure:"log-level"`
	Colour        bool           `mapstructure:"colour"`
	DBPath        string         `mapstructure:"db-path"`
	Output        string         `mapstructure:"output" validate:"oneof=table json"`
	MetricsFile   string         `mapstructure:"metrics-file"`
	ConstantsFile string         `mapstructure:"versioned-constants"`
}

type RunFunc func(ctx context.Context, config *Config, scenarioPath string, out io.Writer) error

func NewCmd(config *Config, run RunFunc) *cobra.Command {
	blockifierCmd := &cobra.Command{
		Use:          "blockifier",
		Short:        "Starknet transaction executor",
		Long:         "Replays blocks of invoke transactions against a fixture genesis state and reports their state diffs.",
		SilenceUsage: true,
	}

	var cfgFile string
	blockifierCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		v := viper.New()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if err := v.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(), mapstructure.StringToSliceHookFunc(",")))); err != nil {
			return err
		}
		return validator.Validator().Struct(config)
	}

	flags := blockifierCmd.PersistentFlags()
	flags.StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	flags.Var(utils.NewLogLevel(defaultLogLevel), logLevelF, logLevelFlagUsage)
	flags.Bool(colourF, defaultColour, colourUsage)
	flags.String(dbPathF, defaultDBPath, dbPathUsage)
	flags.String(outputF, defaultOutput, outputUsage)
	flags.String(metricsFileF, defaultMetricsFile, metricsFileUsage)
	flags.String(constantsF, defaultConstants, constantsUsage)

	blockifierCmd.AddCommand(&cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute the blocks of a scenario and print a report per block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config, args[0], cmd.OutOrStdout())
		},
	})

	return blockifierCmd
}

func (c *Config) String() string {
	return fmt.Sprintf("log-level=%s db-path=%q output=%s metrics-file=%q versioned-constants=%q",
		c.LogLevel, c.DBPath, c.Output, c.MetricsFile, c.ConstantsFile)
}
