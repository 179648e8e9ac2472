// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command setup is an interactive wizard that authors an HCL config
// file for the honeypot: hostname, decoy password, listen address,
// and the on-disk paths the core reads at startup.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/duskwatch/sshpot/internal/paths"
)

type wizardAnswers struct {
	hostname       string
	password       string
	listenAddress  string
	port           string
	dataPath       string
	logPath        string
	txtCmdsPath    string
	databaseEngine string
	metricsEnabled bool
	metricsAddr    string
}

func main() {
	outputFlag := flag.String("output", "", "path to write the generated config (default: XDG config dir)")
	flag.Parse()

	outPath := *outputFlag
	if outPath == "" {
		outPath = filepath.Join(paths.DefaultConfigDir(), "sshpot.hcl")
	}

	answers := defaultAnswers()
	form := buildForm(&answers)
	if err := form.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}

	if err := writeConfig(outPath, answers); err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\n", outPath)
}

func defaultAnswers() wizardAnswers {
	return wizardAnswers{
		hostname:      "svr04",
		password:      "123456",
		listenAddress: "0.0.0.0",
		port:          "2222",
		dataPath:      paths.DefaultDataDir(),
		logPath:       paths.DefaultLogDir(),
		databaseEngine: "jsonl",
	}
}

func buildForm(a *wizardAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hostname").
				Description("Shown in the fake shell prompt").
				Value(&a.hostname).
				Validate(required),
			huh.NewInput().
				Title("Decoy password").
				Description("Accepted at login, in addition to anything learned in the wild").
				EchoMode(huh.EchoModePassword).
				Value(&a.password).
				Validate(required),
			huh.NewInput().
				Title("Listen address").
				Value(&a.listenAddress).
				Validate(required),
			huh.NewInput().
				Title("Listen port").
				Value(&a.port).
				Validate(validPort),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Data directory").
				Description("Accepted-password store and filesystem image").
				Value(&a.dataPath).
				Validate(required),
			huh.NewInput().
				Title("Log directory").
				Description("tty session logs and event sink output").
				Value(&a.logPath).
				Validate(required),
			huh.NewInput().
				Title("Canned-output directory (optional)").
				Description("Real files served verbatim for a VFS path with no better match").
				Value(&a.txtCmdsPath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Event sink").
				Options(
					huh.NewOption("none", "none"),
					huh.NewOption("log lines", "log"),
					huh.NewOption("jsonl files", "jsonl"),
				).
				Value(&a.databaseEngine),
			huh.NewConfirm().
				Title("Expose a metrics/healthz endpoint?").
				Value(&a.metricsEnabled),
		),
	).WithTheme(huh.ThemeBase16())
}

func required(s string) error {
	if s == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}

func validPort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

func writeConfig(outPath string, a wizardAnswers) error {
	port, err := strconv.Atoi(a.port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", a.port, err)
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("hostname", cty.StringVal(a.hostname))
	body.SetAttributeValue("password", cty.StringVal(a.password))
	body.SetAttributeValue("data_path", cty.StringVal(a.dataPath))
	body.SetAttributeValue("log_path", cty.StringVal(a.logPath))
	if a.txtCmdsPath != "" {
		body.SetAttributeValue("txtcmds_path", cty.StringVal(a.txtCmdsPath))
	}
	body.AppendNewline()

	sshBlock := body.AppendNewBlock("ssh", nil).Body()
	sshBlock.SetAttributeValue("listen_address", cty.StringVal(a.listenAddress))
	sshBlock.SetAttributeValue("port", cty.NumberIntVal(int64(port)))
	body.AppendNewline()

	dbBlock := body.AppendNewBlock("database", nil).Body()
	dbBlock.SetAttributeValue("engine", cty.StringVal(a.databaseEngine))

	if a.metricsEnabled {
		body.AppendNewline()
		metricsBlock := body.AppendNewBlock("metrics", nil).Body()
		addr := a.metricsAddr
		if addr == "" {
			addr = "127.0.0.1:9090"
		}
		metricsBlock.SetAttributeValue("listen_address", cty.StringVal(addr))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(outPath, f.Bytes(), 0600)
}
