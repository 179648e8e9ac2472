// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package vfs

import (
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/duskwatch/sshpot/internal/errors"
)

// Image is the immutable base filesystem tree, loaded once at startup
// and shared read-only across every session.
type Image struct {
	Root *Node
}

// wireNode mirrors Node for CBOR encoding; Node itself is not encoded
// directly so future in-memory fields (e.g. caches) don't leak into
// the on-disk format.
type wireNode struct {
	Name       string      `cbor:"name"`
	Kind       Kind        `cbor:"kind"`
	Mode       uint32      `cbor:"mode"`
	UID        int         `cbor:"uid"`
	GID        int         `cbor:"gid"`
	Size       int64       `cbor:"size"`
	Mtime      time.Time   `cbor:"mtime"`
	Content    []byte      `cbor:"content,omitempty"`
	LinkTarget string      `cbor:"link_target,omitempty"`
	Children   []*wireNode `cbor:"children,omitempty"`
}

func toWire(n *Node) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{
		Name: n.Name, Kind: n.Kind, Mode: n.Mode, UID: n.UID, GID: n.GID,
		Size: n.Size, Mtime: n.Mtime, Content: n.Content, LinkTarget: n.LinkTarget,
	}
	for _, c := range n.Children {
		w.Children = append(w.Children, toWire(c))
	}
	return w
}

func fromWire(w *wireNode) *Node {
	if w == nil {
		return nil
	}
	n := &Node{
		Name: w.Name, Kind: w.Kind, Mode: w.Mode, UID: w.UID, GID: w.GID,
		Size: w.Size, Mtime: w.Mtime, Content: w.Content, LinkTarget: w.LinkTarget,
	}
	for _, c := range w.Children {
		n.Children = append(n.Children, fromWire(c))
	}
	return n
}

// Encode serialises the image as a CBOR snapshot.
func (img *Image) Encode() ([]byte, error) {
	data, err := cbor.Marshal(toWire(img.Root))
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "encode vfs image")
	}
	return data, nil
}

// Decode loads an Image from a CBOR snapshot produced by Encode.
func Decode(data []byte) (*Image, error) {
	var w wireNode
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "decode vfs image")
	}
	return &Image{Root: fromWire(&w)}, nil
}

// LoadFile reads and decodes an Image from a CBOR snapshot file, the
// configured filesystem_file.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "read filesystem image %s", path)
	}
	return Decode(data)
}

// NewEmptyImage returns a minimal image with just a root directory,
// useful as a fallback when no filesystem_file is configured.
func NewEmptyImage() *Image {
	return &Image{Root: NewDir("", 0755)}
}
