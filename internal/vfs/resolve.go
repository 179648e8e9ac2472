// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package vfs

import (
	"path"
	"sort"
	"strings"

	"github.com/duskwatch/sshpot/internal/errors"
)

// ResolvePath normalises path against cwd: anchors relative paths,
// collapses "." and "..", resolves duplicate separators, and follows
// symlinks encountered along the way. Does not require the resulting
// path to exist.
func (o *Overlay) ResolvePath(rawPath, cwd string) (string, error) {
	abs := rawPath
	if !strings.HasPrefix(abs, "/") {
		abs = path.Join(cwd, abs)
	}
	return o.resolveClean(path.Clean(abs), 0)
}

// resolveClean walks an already path.Clean'd absolute path one
// segment at a time, substituting in the target of any symlink
// encountered so later segments resolve relative to it.
func (o *Overlay) resolveClean(cleanAbs string, depth int) (string, error) {
	segs := splitPath(cleanAbs)
	result := "/"
	for _, seg := range segs {
		candidate := path.Join(result, seg)
		n, err := o.getNode(candidate)
		if err != nil {
			// Not found: the remainder of the path is taken
			// literally; a nonexistent target is a valid resolution.
			result = candidate
			continue
		}
		if n.IsSymlink() {
			if depth >= maxSymlinkDepth {
				return "", errors.New(errors.KindLoop, "too many levels of symbolic links")
			}
			target := n.LinkTarget
			if !strings.HasPrefix(target, "/") {
				target = path.Join(result, target)
			}
			resolved, err := o.resolveClean(path.Clean(target), depth+1)
			if err != nil {
				return "", err
			}
			result = resolved
			continue
		}
		result = candidate
	}
	return result, nil
}

// PathExists reports whether rawPath resolved against cwd is reachable.
func (o *Overlay) PathExists(rawPath, cwd string) bool {
	abs, err := o.ResolvePath(rawPath, cwd)
	if err != nil {
		return false
	}
	return o.Exists(abs)
}

// ResolvePathWC performs glob expansion of a single argument against
// the overlay. Only the final path segment is treated as a pattern;
// earlier segments must resolve literally. Returns matches in
// lexicographic order, or an empty slice if the pattern matched
// nothing or contains no wildcard metacharacters.
func (o *Overlay) ResolvePathWC(arg, cwd string) ([]string, error) {
	if !containsGlobMeta(arg) {
		return nil, nil
	}

	abs := arg
	if !strings.HasPrefix(abs, "/") {
		abs = path.Join(cwd, abs)
	}
	dir, pattern := path.Split(abs)
	dir = path.Clean(dir)

	dirAbs, err := o.ResolvePath(dir, cwd)
	if err != nil {
		return nil, nil
	}
	dirNode, err := o.GetNode(dirAbs)
	if err != nil || !dirNode.IsDir() {
		return nil, nil
	}

	var matches []string
	for _, c := range dirNode.Children {
		if strings.HasPrefix(c.Name, ".") && !strings.HasPrefix(pattern, ".") {
			continue
		}
		ok, err := path.Match(pattern, c.Name)
		if err != nil || !ok {
			continue
		}
		if dirAbs == "/" {
			matches = append(matches, "/"+c.Name)
		} else {
			matches = append(matches, dirAbs+"/"+c.Name)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func containsGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
