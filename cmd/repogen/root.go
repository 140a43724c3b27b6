package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli holds the state shared by the commands of one execution.
type cli struct {
	v       *viper.Viper
	cfgFile string
	opts    options
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	root := &cobra.Command{
		Use:   "repogen",
		Short: "Generate PostgreSQL repositories from annotated records",
		Long: `repogen reads record declarations annotated with //repogen:repository,
or a YAML descriptor of them, and generates a typed repository with CRUD and
search operations for each record.

Flags can also be set in repogen.yaml or with REPOGEN_ environment variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initConfig,
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./repogen.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	root.AddCommand(c.generateCmd(), c.checkCmd(), versionCmd())
	return root
}

// initConfig reads the configuration of the executed command: flags first, then
// REPOGEN_ environment variables, then the config file.
func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	v := c.v
	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.SetConfigName("repogen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("REPOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if err := v.Unmarshal(&c.opts); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	level := slog.LevelInfo
	if c.opts.Verbose {
		level = slog.LevelDebug
	}
	c.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if used := v.ConfigFileUsed(); used != "" {
		c.log.Debug("using config file", "file", used)
	}
	return nil
}

// genFlags registers the flags shared by generate and check.
func genFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String("schema", "./models", "package of the annotated records, or a YAML descriptor")
	fs.String("target", "", "directory of the generated code")
	fs.String("package", "", "package name of the generated code")
	fs.String("header", "", "header comment of the generated files")
	fs.StringSlice("records", nil, "only generate the named records")
	fs.StringSlice("features", nil, "enable optional features, e.g. sql/templates")
	fs.StringSlice("disable", nil, "disable default features, e.g. uuid")
	fs.StringSlice("tags", nil, "build tags used when loading the records package")
	fs.Int("workers", 0, "number of parallel workers (default is the number of CPUs)")
}
