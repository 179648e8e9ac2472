// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package vfs implements the honeypot's virtual filesystem: a single
// immutable base image shared read-only across sessions, with a
// per-session copy-on-write overlay so one attacker's writes never
// affect another's view and are discarded at disconnect.
package vfs

import "time"

// Kind is the type of a filesystem node.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
	KindBlockDev
	KindCharDev
	KindFifo
	KindSocket
)

// Node is a single entry in the tree. Root has empty Name. Children is
// non-nil only for directories and is kept ordered by name so listing
// is deterministic.
type Node struct {
	Name string
	Kind Kind

	Mode uint32
	UID  int
	GID  int
	Size int64
	Mtime time.Time

	// Content is the node's data for regular files, held inline as
	// bytes in both base-image and shadow nodes. Nil for everything
	// but files.
	Content []byte

	// LinkTarget holds the unresolved target path for symlinks. Not
	// resolved until lookup time.
	LinkTarget string

	Children []*Node
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool { return n.Kind == KindDirectory }

// IsSymlink reports whether the node is a symlink.
func (n *Node) IsSymlink() bool { return n.Kind == KindSymlink }

// child returns the named child of a directory node, or nil.
func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NewDir builds a directory node with the given name and mode.
func NewDir(name string, mode uint32) *Node {
	return &Node{Name: name, Kind: KindDirectory, Mode: mode}
}

// NewFile builds a regular file node with inline content.
func NewFile(name string, mode uint32, content []byte) *Node {
	return &Node{Name: name, Kind: KindFile, Mode: mode, Content: content, Size: int64(len(content))}
}

// NewSymlink builds a symlink node pointing at target.
func NewSymlink(name, target string) *Node {
	return &Node{Name: name, Kind: KindSymlink, LinkTarget: target}
}
