// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config parses pantheond's command-line and INI configuration
// using jessevdk/go-flags, the same library and two-pass
// (pre-parse-for-config-file, then full-parse) approach the wider
// decred/btcsuite family uses for their node daemons.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "pantheond.conf"
	defaultDataDirname     = "data"
	defaultLogDirname      = "logs"
	defaultLogFilename     = "pantheond.log"
	defaultListenPort      = "19100"
	defaultRPCPort         = "19101"
	defaultMaxPeers        = 125
	defaultLogLevel        = "info"
)

// Config holds every flag/INI option pantheond accepts.
type Config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store chain data and node state"`
	LogDir      string `long:"logdir" description:"Directory to log output"`

	Listen    []string `long:"listen" description:"Add an interface/port to listen for P2P connections"`
	RPCListen []string `long:"rpclisten" description:"Add an interface/port for the RPC server"`
	AddPeer   []string `long:"addpeer" description:"Add a peer to connect with at startup"`
	MaxPeers  int      `long:"maxpeers" description:"Max number of inbound and outbound peers"`

	TestNet bool `long:"testnet" description:"Use the test network"`
	RegTest bool `long:"regtest" description:"Use the regression test network"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems: trace, debug, info, warn, error, critical"`

	NoPeerBloomFilters bool `long:"nopeerbloomfilters" description:"Disable bloom filtering support for relaying transactions to peers"`

	DataDirAbs string `no-ini:"true" no-flag:"true"`
	LogDirAbs  string `no-ini:"true" no-flag:"true"`
}

func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".pantheond")
}

// Default returns a Config populated with the daemon's baked-in
// defaults, before any flag/INI override is applied.
func Default() Config {
	home := defaultHomeDir()
	return Config{
		ConfigFile: filepath.Join(home, defaultConfigFilename),
		DataDir:    filepath.Join(home, defaultDataDirname),
		LogDir:     filepath.Join(home, defaultLogDirname),
		Listen:     []string{":" + defaultListenPort},
		RPCListen:  []string{"127.0.0.1:" + defaultRPCPort},
		MaxPeers:   defaultMaxPeers,
		DebugLevel: defaultLogLevel,
	}
}

// Load runs the two-pass parse the decred/btcsuite daemons use: a
// first pass reads only -C/--configfile and -V/--version off the
// command line, then an INI pass applies the config file (if any),
// and a final pass lets the command line override the file.
func Load(args []string) (*Config, []string, error) {
	preCfg := Default()
	preParser := flags.NewParser(&preCfg, flags.Default|flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(args); err != nil {
		return nil, nil, err
	}
	if preCfg.ShowVersion {
		return &preCfg, nil, nil
	}

	cfg := Default()
	if preCfg.ConfigFile != "" {
		cfg.ConfigFile = preCfg.ConfigFile
	}
	if _, err := os.Stat(cfg.ConfigFile); err == nil {
		iniParser := flags.NewParser(&cfg, flags.Default)
		if err := flags.NewIniParser(iniParser).ParseFile(cfg.ConfigFile); err != nil {
			return nil, nil, fmt.Errorf("config: failed to parse %s: %w", cfg.ConfigFile, err)
		}
	}

	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	if err := normalize(&cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, remaining, nil
}

// normalize validates mutually exclusive and out-of-range options and
// resolves and creates the data and log directories, mirroring the shape of the decred/btcsuite config
// validation pass without pulling in their chaincfg package, which
// this module's own chaincfg-equivalent network params supersede.
func normalize(cfg *Config) error {
	if cfg.TestNet && cfg.RegTest {
		return fmt.Errorf("config: testnet and regtest cannot both be specified")
	}
	if cfg.MaxPeers <= 0 {
		return fmt.Errorf("config: maxpeers must be positive, got %d", cfg.MaxPeers)
	}

	var err error
	cfg.DataDirAbs, err = filepath.Abs(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("config: invalid datadir: %w", err)
	}
	cfg.LogDirAbs, err = filepath.Abs(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("config: invalid logdir: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDirAbs, 0o700); err != nil {
		return fmt.Errorf("config: failed to create datadir: %w", err)
	}
	if err := os.MkdirAll(cfg.LogDirAbs, 0o700); err != nil {
		return fmt.Errorf("config: failed to create logdir: %w", err)
	}
	return nil
}

// LogFilePath returns the full path to the daemon's rotating log file.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.LogDirAbs, defaultLogFilename)
}
