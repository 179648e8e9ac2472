// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package command

import "os"

// TxtCmd is a canned-response command: its entire state is the real
// host filesystem path whose contents it echoes. Replaces a
// captured-path closure with a value type, so no nested function
// literal carries the path implicitly.
type TxtCmd struct {
	host Host
	path string
}

// NewTxtCmd returns a one-shot Command that writes the contents of
// path (a real host filesystem path, not a VFS path) and exits.
func NewTxtCmd(host Host, path string) *TxtCmd {
	return &TxtCmd{host: host, path: path}
}

func (t *TxtCmd) Start() { t.Call(); t.Exit() }

func (t *TxtCmd) Call() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return
	}
	t.host.Write(data)
}

func (t *TxtCmd) Exit() { t.host.Pop() }

func (t *TxtCmd) CtrlC() { t.Exit() }

func (t *TxtCmd) LineReceived(string) {}
func (t *TxtCmd) Resume()             {}
