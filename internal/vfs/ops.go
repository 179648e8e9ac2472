// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package vfs

import (
	"path"
	"strings"

	"github.com/duskwatch/sshpot/internal/clock"
	"github.com/duskwatch/sshpot/internal/errors"
)

// ListDir returns the children of the directory at absPath, ordered
// by name.
func (o *Overlay) ListDir(absPath string) ([]*Node, error) {
	n, err := o.GetNode(absPath)
	if err != nil {
		return nil, err
	}
	if !n.IsDir() {
		return nil, errors.New(errors.KindNotADirectory, "not a directory")
	}
	return n.Children, nil
}

// ReadFile returns up to length bytes of the file at absPath,
// starting at offset.
func (o *Overlay) ReadFile(absPath string, offset, length int64) ([]byte, error) {
	n, err := o.GetNode(absPath)
	if err != nil {
		return nil, err
	}
	if n.Kind != KindFile {
		return nil, errors.New(errors.KindValidation, "not a regular file")
	}
	if offset >= int64(len(n.Content)) {
		return nil, nil
	}
	end := offset + length
	if length < 0 || end > int64(len(n.Content)) {
		end = int64(len(n.Content))
	}
	return n.Content[offset:end], nil
}

// WriteFile writes data to absPath, creating the file if absent.
// truncate replaces existing content instead of appending.
func (o *Overlay) WriteFile(absPath string, data []byte, truncate bool) error {
	parent, name := path.Split(strings.TrimSuffix(absPath, "/"))
	parent = path.Clean(parent)

	existing, err := o.getNode(absPath)
	if err == nil && existing.Kind != KindFile {
		return errors.New(errors.KindValidation, "not a regular file")
	}

	var content []byte
	if err == nil && !truncate {
		content = append(append([]byte(nil), existing.Content...), data...)
	} else {
		content = append([]byte(nil), data...)
	}

	node := NewFile(name, 0644, content)
	node.Mtime = clock.Now()
	return o.addChild(parent, node)
}

// Mkdir creates a directory at absPath.
func (o *Overlay) Mkdir(absPath string) error {
	if o.Exists(absPath) {
		return errors.New(errors.KindConflict, "file exists")
	}
	parent, name := path.Split(strings.TrimSuffix(absPath, "/"))
	parent = path.Clean(parent)

	node := NewDir(name, 0755)
	node.Mtime = clock.Now()
	return o.addChild(parent, node)
}

// Unlink removes the node at absPath.
func (o *Overlay) Unlink(absPath string) error {
	if absPath == "/" {
		return errors.New(errors.KindPermission, "operation not permitted")
	}
	parent, name := path.Split(strings.TrimSuffix(absPath, "/"))
	parent = path.Clean(parent)
	if err := o.removeChild(parent, name); err != nil {
		return err
	}
	// Drop shadow copies at or below the removed path so a node cloned
	// earlier does not stay reachable after its removal.
	clean := path.Clean(absPath)
	for p := range o.shadow {
		if p == clean || strings.HasPrefix(p, clean+"/") {
			delete(o.shadow, p)
		}
	}
	return nil
}

// Stat returns the node metadata at absPath without following a
// trailing symlink.
func (o *Overlay) Stat(absPath string) (*Node, error) {
	return o.getNode(absPath)
}
