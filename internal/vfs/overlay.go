// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package vfs

import (
	"path"
	"strings"

	"github.com/duskwatch/sshpot/internal/errors"
)

// maxSymlinkDepth bounds symlink resolution so a link cycle reports a
// synthetic "too many levels" failure instead of looping forever.
const maxSymlinkDepth = 40

// Overlay is a session's copy-on-write view of the shared base image.
// Reads prefer the shadow over the base; writes only ever touch the
// shadow. Discarded wholesale at session end.
type Overlay struct {
	base    *Image
	shadow  map[string]*Node
	deleted map[string]bool
}

// NewOverlay opens a fresh, empty overlay over img. img is never
// mutated.
func NewOverlay(img *Image) *Overlay {
	return &Overlay{
		base:    img,
		shadow:  make(map[string]*Node),
		deleted: make(map[string]bool),
	}
}

// getNode looks up the exact node at an already-normalised absolute
// path, without following a trailing symlink.
func (o *Overlay) getNode(absPath string) (*Node, error) {
	if absPath == "/" {
		if n, ok := o.shadow["/"]; ok {
			return n, nil
		}
		return o.base.Root, nil
	}

	segs := splitPath(absPath)
	cur := o.rootNode()
	curPath := ""
	for _, seg := range segs {
		curPath += "/" + seg
		if o.deleted[curPath] {
			return nil, errors.New(errors.KindNotFound, "no such file or directory")
		}
		if shadowed, ok := o.shadow[curPath]; ok {
			cur = shadowed
			continue
		}
		if !cur.IsDir() {
			return nil, errors.New(errors.KindNotADirectory, "not a directory")
		}
		child := cur.child(seg)
		if child == nil {
			return nil, errors.New(errors.KindNotFound, "no such file or directory")
		}
		cur = child
	}
	return cur, nil
}

func (o *Overlay) rootNode() *Node {
	if n, ok := o.shadow["/"]; ok {
		return n
	}
	return o.base.Root
}

// GetNode resolves path (already absolute, produced by ResolvePath)
// and follows a trailing symlink.
func (o *Overlay) GetNode(absPath string) (*Node, error) {
	return o.getNodeFollow(absPath, 0)
}

func (o *Overlay) getNodeFollow(absPath string, depth int) (*Node, error) {
	n, err := o.getNode(absPath)
	if err != nil {
		return nil, err
	}
	if n.IsSymlink() {
		if depth >= maxSymlinkDepth {
			return nil, errors.New(errors.KindLoop, "too many levels of symbolic links")
		}
		target := n.LinkTarget
		if !strings.HasPrefix(target, "/") {
			target = path.Join(path.Dir(absPath), target)
		}
		return o.getNodeFollow(path.Clean(target), depth+1)
	}
	return n, nil
}

// Exists reports whether path (already resolved) is reachable.
func (o *Overlay) Exists(absPath string) bool {
	_, err := o.GetNode(absPath)
	return err == nil
}

// cloneForWrite returns the shadow node at absPath, creating a
// copy-on-write clone from the current resolved node (base or an
// existing shadow) if one isn't already present. Used before any
// mutation.
func (o *Overlay) cloneForWrite(absPath string) (*Node, error) {
	if n, ok := o.shadow[absPath]; ok {
		return n, nil
	}
	src, err := o.getNode(absPath)
	if err != nil {
		return nil, err
	}
	clone := &Node{
		Name: src.Name, Kind: src.Kind, Mode: src.Mode, UID: src.UID, GID: src.GID,
		Size: src.Size, Mtime: src.Mtime, LinkTarget: src.LinkTarget,
	}
	if src.Content != nil {
		clone.Content = append([]byte(nil), src.Content...)
	}
	if src.Children != nil {
		clone.Children = append([]*Node(nil), src.Children...)
	}
	o.shadow[absPath] = clone
	delete(o.deleted, absPath)
	return clone, nil
}

// addChild inserts or replaces a child entry in the cloned parent
// directory at parentPath, keeping Children sorted by name.
func (o *Overlay) addChild(parentPath string, child *Node) error {
	parent, err := o.cloneForWrite(parentPath)
	if err != nil {
		return err
	}
	if !parent.IsDir() {
		return errors.New(errors.KindNotADirectory, "not a directory")
	}
	for i, c := range parent.Children {
		if c.Name == child.Name {
			parent.Children[i] = child
			return nil
		}
	}
	parent.Children = append(parent.Children, child)
	sortChildren(parent.Children)
	return nil
}

func (o *Overlay) removeChild(parentPath, name string) error {
	parent, err := o.cloneForWrite(parentPath)
	if err != nil {
		return err
	}
	out := parent.Children[:0]
	found := false
	for _, c := range parent.Children {
		if c.Name == name {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		return errors.New(errors.KindNotFound, "no such file or directory")
	}
	parent.Children = out
	return nil
}

func sortChildren(children []*Node) {
	for i := 1; i < len(children); i++ {
		for j := i; j > 0 && children[j-1].Name > children[j].Name; j-- {
			children[j-1], children[j] = children[j], children[j-1]
		}
	}
}

func splitPath(absPath string) []string {
	absPath = strings.Trim(absPath, "/")
	if absPath == "" {
		return nil
	}
	return strings.Split(absPath, "/")
}
