package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-iqspec/internal/config"
	"github.com/cwbudde/algo-iqspec/internal/logging"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	fs     afero.Fs
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	configFile string
	progress   bool

	cfg *config.Config
	log logging.Logger
}

func newApp(fs afero.Fs, stdout, stderr io.Writer) *app {
	return &app{fs: fs, v: viper.New(), stdout: stdout, stderr: stderr}
}

func (a *app) execute(args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root.Execute()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "iqspec",
		Short: "Block-wise spectral analysis of raw I/Q captures",
		Long: `iqspec reads a raw stream of interleaved little-endian float32 I/Q
samples in fixed-size blocks and derives amplitude, power, power spectra,
an integrated power spectrum or a spectrogram from it.

When samples_per_block is omitted it is taken from the sample rate encoded
in a gqrx capture file name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initializeConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "",
		"config file (default is $HOME/.config/iqspec/iqspec.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.StringP("output-dir", "d", "", "directory for output files (default is the working directory)")
	pf.IntP("workers", "w", 1, "blocks computed concurrently (0 = one per CPU)")
	pf.Int64("progress-every", 100, "blocks between progress updates")
	pf.BoolVar(&a.progress, "progress", false, "print progress to stderr")
	pf.Bool("summary", false, "write a YAML run summary next to each output")

	a.bindFlags(pf, map[string]string{
		"log-level":      "log_level",
		"log-format":     "log_format",
		"output-dir":     "output_dir",
		"workers":        "workers",
		"progress-every": "progress_every",
		"summary":        "summary",
	})

	root.AddCommand(
		a.amplitudeCommand(),
		a.amplitudeSumCommand(),
		a.powerCommand(),
		a.powerSpectrumCommand(),
		a.integratedCommand(),
		a.spectrogramCommand(),
		a.calibrateCommand(),
		a.infoCommand(),
		a.windowsCommand(),
		a.generateCommand(),
	)

	return root
}

// bindFlags binds each named flag to its viper key.
func (a *app) bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		// Only fails for a nil flag, which VisitAll never passes.
		_ = a.v.BindPFlag(key, f)
	})
}

// initConfig reads in the config file and environment variables.
func (a *app) initConfig() error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "iqspec"))
		}
		a.v.AddConfigPath("/etc/iqspec")
		a.v.AddConfigPath("./configs")
		a.v.SetConfigName("iqspec")
		a.v.SetConfigType("yaml")
	}
	a.v.SetFs(a.fs)

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	config.SetDefaults(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// initializeConfig runs after flags are parsed and before any subcommand.
func (a *app) initializeConfig(cmd *cobra.Command) error {
	if err := a.initConfig(); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	log, err := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat), a.stderr)
	if err != nil {
		return err
	}
	a.log = log.WithFields(logging.Fields{"command": cmd.Name()})

	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("Using config file", logging.Fields{"path": used})
	}
	return nil
}
