// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package vfs

import (
	"testing"

	"github.com/duskwatch/sshpot/internal/errors"
)

func testImage() *Image {
	root := NewDir("", 0755)
	home := NewDir("root", 0700)
	root.Children = append(root.Children, home)

	bashrc := NewFile(".bashrc", 0644, []byte("export PATH=/bin\n"))
	notes := NewFile("notes.txt", 0644, []byte("hello"))
	home.Children = append(home.Children, bashrc, notes)

	bin := NewDir("bin", 0755)
	ls := NewFile("ls", 0755, []byte("#!binary"))
	cat := NewFile("cat", 0755, []byte("#!binary"))
	bin.Children = append(bin.Children, ls, cat)
	root.Children = append(root.Children, bin)

	link := NewSymlink("home", "/root")
	root.Children = append(root.Children, link)

	sortChildren(root.Children)
	sortChildren(home.Children)
	sortChildren(bin.Children)

	return &Image{Root: root}
}

func TestResolvePathDotDot(t *testing.T) {
	o := NewOverlay(testImage())
	got, err := o.ResolvePath("../bin/ls", "/root")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if got != "/bin/ls" {
		t.Errorf("expected /bin/ls, got %q", got)
	}
}

func TestResolvePathFollowsSymlink(t *testing.T) {
	o := NewOverlay(testImage())
	got, err := o.ResolvePath("notes.txt", "/home")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if got != "/root/notes.txt" {
		t.Errorf("expected /root/notes.txt, got %q", got)
	}
}

func TestExists(t *testing.T) {
	o := NewOverlay(testImage())
	if !o.PathExists("/bin/ls", "/") {
		t.Error("expected /bin/ls to exist")
	}
	if o.PathExists("/bin/nope", "/") {
		t.Error("expected /bin/nope to not exist")
	}
}

func TestResolvePathWCGlob(t *testing.T) {
	o := NewOverlay(testImage())
	matches, err := o.ResolvePathWC("*", "/root")
	if err != nil {
		t.Fatalf("ResolvePathWC: %v", err)
	}
	want := []string{"/root/notes.txt"}
	if len(matches) != len(want) || matches[0] != want[0] {
		t.Errorf("expected %v (dotfile excluded), got %v", want, matches)
	}
}

func TestResolvePathWCNoMetaReturnsNil(t *testing.T) {
	o := NewOverlay(testImage())
	matches, err := o.ResolvePathWC("notes.txt", "/root")
	if err != nil {
		t.Fatalf("ResolvePathWC: %v", err)
	}
	if matches != nil {
		t.Errorf("expected nil for literal argument, got %v", matches)
	}
}

func TestWriteFileIsCOWAndSessionIsolated(t *testing.T) {
	img := testImage()
	a := NewOverlay(img)
	b := NewOverlay(img)

	if err := a.WriteFile("/root/new.txt", []byte("from a"), true); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if !a.Exists("/root/new.txt") {
		t.Error("expected session a to see its own write")
	}
	if b.Exists("/root/new.txt") {
		t.Error("expected session b to not see session a's write")
	}
	if img.Root.child("root").child("new.txt") != nil {
		t.Error("expected base image to remain unmutated")
	}
}

func TestUnlinkRemovesFromOverlayOnly(t *testing.T) {
	img := testImage()
	o := NewOverlay(img)

	if err := o.Unlink("/root/notes.txt"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if o.Exists("/root/notes.txt") {
		t.Error("expected notes.txt removed from overlay")
	}
	if img.Root.child("root").child("notes.txt") == nil {
		t.Error("expected base image untouched by unlink")
	}
}

func TestMkdirConflict(t *testing.T) {
	o := NewOverlay(testImage())
	if err := o.Mkdir("/bin"); err == nil {
		t.Fatal("expected error creating an already-existing directory")
	} else if errors.GetKind(err) != errors.KindConflict {
		t.Errorf("expected KindConflict, got %v", errors.GetKind(err))
	}
}

func TestReadFileOffsetLength(t *testing.T) {
	o := NewOverlay(testImage())
	data, err := o.ReadFile("/root/notes.txt", 1, 3)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "ell" {
		t.Errorf("expected \"ell\", got %q", data)
	}
}

func TestGetNodeNotFound(t *testing.T) {
	o := NewOverlay(testImage())
	_, err := o.GetNode("/does/not/exist")
	if errors.GetKind(err) != errors.KindNotFound {
		t.Errorf("expected KindNotFound, got %v", errors.GetKind(err))
	}
}

func TestLoopDetection(t *testing.T) {
	img := testImage()
	img.Root.Children = append(img.Root.Children, NewSymlink("loop1", "/loop2"))
	img.Root.Children = append(img.Root.Children, NewSymlink("loop2", "/loop1"))
	sortChildren(img.Root.Children)

	o := NewOverlay(img)
	_, err := o.ResolvePath("/loop1", "/")
	if errors.GetKind(err) != errors.KindLoop {
		t.Errorf("expected KindLoop, got %v", errors.GetKind(err))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := testImage()
	data, err := img.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	o := NewOverlay(decoded)
	if !o.Exists("/bin/cat") {
		t.Error("expected round-tripped image to still contain /bin/cat")
	}
}
