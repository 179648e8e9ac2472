// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package session

import (
	"os"

	"github.com/duskwatch/sshpot/internal/errors"
)

// AppendLastlog appends line to the lastlog file at path, creating it
// if absent.
func AppendLastlog(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.KindUnavailable, "open lastlog %s", path)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return errors.Wrapf(err, errors.KindUnavailable, "append lastlog %s", path)
	}
	return nil
}
