// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2017-2019 The Spacemesh developers

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jessevdk/go-flags"

	"github.com/badgerous/hashbench/harness"
	"github.com/badgerous/hashbench/workload"
)

const (
	defaultLogFilename    = "hashbench.log"
	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10
)

type workloadConfig struct {
	Size      int     `long:"size" description:"Number of corpus entries"`
	MaxLength int     `long:"maxlength" description:"Maximum entry length in bytes"`
	Skew      float64 `long:"skew" description:"Zipf exponent of the entry length distribution"`
	Seed      uint64  `long:"seed" description:"Seed of the corpus generator (0 seeds from the clock)"`
}

type benchConfig struct {
	WarmupIterations int           `long:"warmup-iterations" description:"Number of warmup iterations per provider"`
	WarmupTime       time.Duration `long:"warmup-time" description:"Duration of one warmup iteration"`
	Iterations       int           `short:"i" long:"iterations" description:"Number of measurement iterations per provider"`
	Time             time.Duration `short:"t" long:"time" description:"Duration of one measurement iteration"`
	Forks            int           `short:"f" long:"forks" description:"Number of child processes to run trials in (0 runs in-process)"`
	TimeUnit         time.Duration `long:"timeunit" description:"Throughput is reported in operations per this duration"`
	GC               bool          `long:"gc" description:"Force garbage collection before every iteration"`
	CPU              int           `long:"cpu" description:"Pin the measuring thread to this CPU (-1 disables pinning, linux only)"`
}

// Config defines the configuration options for hashbench.
//
// Options are read from defaults, then the optional configuration file,
// then the command line, each overriding the previous one.
type Config struct {
	ConfigFile     string `short:"c" long:"configfile" description:"Path to configuration file"`
	LogDir         string `long:"logdir" description:"Directory to additionally log to (disabled if empty)"`
	DebugLog       bool   `long:"debuglog" description:"Enable debug logs"`
	JSONLog        bool   `long:"jsonlog" description:"Whether to log in JSON format"`
	MaxLogFiles    int    `long:"maxlogfiles" description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int    `long:"maxlogfilesize" description:"Maximum logfile size in MB"`

	CPUProfile    string `long:"cpuprofile" description:"Write CPU profile to the specified file"`
	MetricsListen string `long:"metricslisten" description:"Serve prometheus metrics on this address while running"`

	Providers []string `short:"p" long:"provider" description:"MD5 provider to benchmark, may be repeated (default: all)"`
	List      bool     `short:"l" long:"list" description:"List available providers and exit"`

	// ForkResult is set on child processes started by the harness.
	ForkResult string `long:"forkresult" hidden:"true" description:"Run a single trial and write its result to this file"`

	Workload *workloadConfig `group:"Workload"`
	Bench    *benchConfig    `group:"Benchmark"`
}

// DefaultConfig returns a config with default hardcoded values.
func DefaultConfig() *Config {
	wl := workload.DefaultConfig()
	hc := harness.DefaultConfig()
	return &Config{
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		Workload: &workloadConfig{
			Size:      wl.Size,
			MaxLength: wl.MaxLength,
			Skew:      wl.Skew,
			Seed:      wl.Seed,
		},
		Bench: &benchConfig{
			WarmupIterations: hc.Warmup.Iterations,
			WarmupTime:       hc.Warmup.Time,
			Iterations:       hc.Measurement.Iterations,
			Time:             hc.Measurement.Time,
			Forks:            hc.Forks,
			TimeUnit:         hc.TimeUnit,
			GC:               hc.GC,
			CPU:              hc.CPU,
		},
	}
}

// ParseFlags reads values from command line arguments.
func ParseFlags(preCfg *Config) (*Config, error) {
	return ParseArgs(preCfg, os.Args[1:])
}

// ParseArgs reads values from args.
func ParseArgs(preCfg *Config, args []string) (*Config, error) {
	parser := flags.NewParser(preCfg, flags.Default)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}
	return preCfg, nil
}

// ReadConfigFile reads values from the ini file named by ConfigFile, if any.
func ReadConfigFile(preCfg *Config) (*Config, error) {
	if preCfg.ConfigFile == "" {
		return preCfg, nil
	}
	preCfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)

	parser := flags.NewParser(preCfg, flags.Default)
	if err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile); err != nil {
		return nil, fmt.Errorf("reading %s: %w", preCfg.ConfigFile, err)
	}
	return preCfg, nil
}

// SetupConfig expands paths and creates the log directory.
func SetupConfig(cfg *Config) (*Config, error) {
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.CPUProfile = cleanAndExpandPath(cfg.CPUProfile)

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o700); err != nil {
			// Show a nicer error message if it's because a symlink is
			// linked to a directory that does not exist (probably because
			// it's not mounted).
			var pathError *fs.PathError
			if errors.As(err, &pathError) && os.IsExist(err) {
				if link, lerr := os.Readlink(pathError.Path); lerr == nil {
					err = fmt.Errorf("is symlink %s -> %s mounted?", pathError.Path, link)
				}
			}
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return cfg, nil
}

// LogFile is the path of the log file, empty if file logging is disabled.
func (c *Config) LogFile() string {
	if c.LogDir == "" {
		return ""
	}
	return filepath.Join(c.LogDir, defaultLogFilename)
}

func (c *Config) WorkloadConfig() workload.Config {
	return workload.Config{
		Size:      c.Workload.Size,
		MaxLength: c.Workload.MaxLength,
		Skew:      c.Workload.Skew,
		Seed:      c.Workload.Seed,
	}
}

func (c *Config) HarnessConfig() harness.Config {
	return harness.Config{
		Warmup:      harness.Phase{Iterations: c.Bench.WarmupIterations, Time: c.Bench.WarmupTime},
		Measurement: harness.Phase{Iterations: c.Bench.Iterations, Time: c.Bench.Time},
		Forks:       c.Bench.Forks,
		TimeUnit:    c.Bench.TimeUnit,
		GC:          c.Bench.GC,
		CPU:         c.Bench.CPU,
	}
}

// Validate checks the workload and benchmark settings, reporting every
// problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if err := c.WorkloadConfig().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.HarnessConfig().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.MaxLogFileSize < 0 || c.MaxLogFiles < 0 {
		result = multierror.Append(result, fmt.Errorf("log rotation settings must not be negative"))
	}
	return result.ErrorOrNil()
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		user, err := user.Current()
		if err == nil {
			homeDir = user.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
