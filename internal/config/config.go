// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config loads the honeypot's HCL configuration file into a
// Config struct carrying exactly the options the core recognises.
package config

// Config is the top-level structure for the honeypot configuration.
type Config struct {
	// Hostname reported in the fake shell prompt and SSH banner context.
	// @default: "svr04"
	Hostname string `hcl:"hostname,optional" json:"hostname,omitempty"`

	// Password is the plaintext decoy password accepted at login, in
	// addition to anything already recorded in the accepted-password
	// store.
	// @default: "123456"
	Password string `hcl:"password,optional" json:"password,omitempty"`

	// DataPath is the directory containing the accepted-password store
	// and the virtual filesystem image. Defaults to an XDG data dir
	// when empty.
	DataPath string `hcl:"data_path,optional" json:"data_path,omitempty"`

	// LogPath is the parent of the tty/ directory tty session logs are
	// written under. Defaults to an XDG state dir when empty.
	LogPath string `hcl:"log_path,optional" json:"log_path,omitempty"`

	// FilesystemFile is the path to the serialized virtual filesystem
	// image loaded at startup.
	// @example: "/etc/sshpot/fs.cbor"
	FilesystemFile string `hcl:"filesystem_file,optional" json:"filesystem_file,omitempty"`

	// TxtCmdsPath is the directory of real files served verbatim as
	// command output: when a command resolves to a VFS path and
	// <txtcmds_path>/<that path> is a regular file, its contents are
	// the command's output.
	TxtCmdsPath string `hcl:"txtcmds_path,optional" json:"txtcmds_path,omitempty"`

	// PublicKey and PrivateKey are the host key paths; generated and
	// cached on first run if absent.
	PublicKey  string `hcl:"public_key,optional" json:"public_key,omitempty"`
	PrivateKey string `hcl:"private_key,optional" json:"private_key,omitempty"`

	SSH      *SSHConfig      `hcl:"ssh,block" json:"ssh,omitempty"`
	Database *DatabaseConfig `hcl:"database,block" json:"database,omitempty"`
	Metrics  *MetricsConfig  `hcl:"metrics,block" json:"metrics,omitempty"`
}

// SSHConfig configures the SSH front door.
type SSHConfig struct {
	// ListenAddress is the bind address for the SSH listener.
	// @default: "0.0.0.0"
	ListenAddress string `hcl:"listen_address,optional" json:"listen_address,omitempty"`
	// Port is the SSH listener's TCP port.
	// @default: 2222
	Port int `hcl:"port,optional" json:"port,omitempty"`
	// Banner is the SSH version string advertised during KEX.
	// @default: "SSH-2.0-OpenSSH_5.1p1 Debian-5"
	Banner string `hcl:"banner,optional" json:"banner,omitempty"`
}

// DatabaseConfig selects the pluggable event sink engine.
type DatabaseConfig struct {
	// Engine names the event sink: "none", "log", or "jsonl".
	// @default: "none"
	Engine string `hcl:"engine,optional" json:"engine,omitempty"`
}

// MetricsConfig configures the operator-facing /metrics and /healthz
// HTTP surface. Not part of the original core; an ambient concern a
// deployed service carries regardless.
type MetricsConfig struct {
	// ListenAddress is the bind address for the metrics HTTP server.
	// Empty disables it.
	// @example: "127.0.0.1:9090"
	ListenAddress string `hcl:"listen_address,optional" json:"listen_address,omitempty"`
}

// applyDefaults fills in the core's documented defaults for anything
// left unset.
func (c *Config) applyDefaults() {
	if c.Hostname == "" {
		c.Hostname = "svr04"
	}
	if c.Password == "" {
		c.Password = "123456"
	}
	if c.SSH == nil {
		c.SSH = &SSHConfig{}
	}
	if c.SSH.ListenAddress == "" {
		c.SSH.ListenAddress = "0.0.0.0"
	}
	if c.SSH.Port == 0 {
		c.SSH.Port = 2222
	}
	if c.SSH.Banner == "" {
		c.SSH.Banner = "SSH-2.0-OpenSSH_5.1p1 Debian-5"
	}
	if c.Database == nil {
		c.Database = &DatabaseConfig{Engine: "none"}
	}
}
