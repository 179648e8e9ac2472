// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command sshpot runs the SSH honeypot: it loads the operator's
// config, wires the deception filesystem and command set, and serves
// connections until signalled to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	charmlog "github.com/charmbracelet/log"

	"github.com/duskwatch/sshpot/internal/auth"
	"github.com/duskwatch/sshpot/internal/command"
	"github.com/duskwatch/sshpot/internal/config"
	"github.com/duskwatch/sshpot/internal/eventsink"
	"github.com/duskwatch/sshpot/internal/hostkey"
	"github.com/duskwatch/sshpot/internal/logging"
	"github.com/duskwatch/sshpot/internal/metrics"
	"github.com/duskwatch/sshpot/internal/paths"
	"github.com/duskwatch/sshpot/internal/sshfront"
	"github.com/duskwatch/sshpot/internal/vfs"
)

func main() {
	configPath := flag.String("config", "", "path to the HCL config file")
	flag.Parse()

	logLevel := charmlog.InfoLevel
	if os.Getenv("DEBUG") != "" {
		logLevel = charmlog.DebugLevel
	}
	logging.SetDefault(logging.New(os.Stderr, logLevel))

	if err := run(*configPath); err != nil {
		logging.Error(fmt.Sprintf("sshpot: %v", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataPath, 0700); err != nil {
		return fmt.Errorf("create data dir %s: %w", cfg.DataPath, err)
	}
	if err := os.MkdirAll(cfg.LogPath, 0700); err != nil {
		return fmt.Errorf("create log dir %s: %w", cfg.LogPath, err)
	}

	image, err := loadImage(cfg.FilesystemFile)
	if err != nil {
		return err
	}

	store, err := auth.OpenStore(cfg.DataPath)
	if err != nil {
		return err
	}
	defer store.Close()
	checker := auth.NewChecker(cfg.Password, store)

	sink, err := buildSink(cfg)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()

	publicKeyPath := cfg.PublicKey
	privateKeyPath := cfg.PrivateKey
	if privateKeyPath == "" {
		privateKeyPath = filepath.Join(paths.DefaultConfigDir(), "ssh_host_ed25519_key")
	}
	if publicKeyPath == "" {
		publicKeyPath = privateKeyPath + ".pub"
	}
	signer, err := hostkey.Load(publicKeyPath, privateKeyPath)
	if err != nil {
		return err
	}

	srv, err := sshfront.New(cfg, checker, signer, image, command.Default(), sink, collector)
	if err != nil {
		return fmt.Errorf("build ssh server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logging.Info("sshpot: shutting down")
		srv.Close()
		cancel()
	}()

	if cfg.Metrics != nil && cfg.Metrics.ListenAddress != "" {
		go func() {
			if err := collector.Serve(ctx, cfg.Metrics.ListenAddress); err != nil {
				logging.Error(fmt.Sprintf("sshpot: metrics server: %v", err))
			}
		}()
	}

	logging.Info(fmt.Sprintf("sshpot: serving as %s on %s:%d", cfg.Hostname, cfg.SSH.ListenAddress, cfg.SSH.Port))
	return srv.ListenAndServe()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadBytes(nil, "<defaults>")
	}
	return config.Load(path)
}

func loadImage(path string) (*vfs.Image, error) {
	if path == "" {
		return vfs.NewEmptyImage(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return vfs.NewEmptyImage(), nil
	}
	return vfs.LoadFile(path)
}

func buildSink(cfg *config.Config) (eventsink.Sink, error) {
	engine := "none"
	if cfg.Database != nil && cfg.Database.Engine != "" {
		engine = cfg.Database.Engine
	}
	return eventsink.New(engine, cfg.LogPath)
}
