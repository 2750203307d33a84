package main

import (
	"context"
	"os"
	"sort"
	"strings"
)

// opGlob expands a pattern against the filesystem and pushes every
// match as a string, sorted. The pattern is split on its last slash;
// only the final component may contain wildcards. No matches pushes
// nothing.
func opGlob(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("glob", 1)
	if err != nil {
		return err
	}
	for _, m := range expandGlob(expandTilde(v[0])) {
		vm.push(Str(m))
	}
	return nil
}

func expandGlob(pattern string) []string {
	dir, pat := ".", pattern
	if i := strings.LastIndexByte(pattern, '/'); i >= 0 {
		dir, pat = pattern[:i], pattern[i+1:]
		if dir == "" {
			dir = "/"
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var matches []string
	for _, e := range entries {
		name := e.Name()
		if !globMatch(pat, name) {
			continue
		}
		if dir == "." {
			matches = append(matches, name)
		} else {
			matches = append(matches, strings.TrimSuffix(dir, "/")+"/"+name)
		}
	}
	sort.Strings(matches)
	return matches
}

// globMatch reports whether name matches pattern, where * matches any
// run of characters and ? matches exactly one.
func globMatch(pattern, name string) bool {
	p, n := []rune(pattern), []rune(name)
	return globMatchAt(p, n, 0, 0)
}

func globMatchAt(p, n []rune, pi, ni int) bool {
	if pi == len(p) {
		return ni == len(n)
	}
	switch p[pi] {
	case '*':
		for skip := 0; skip <= len(n)-ni; skip++ {
			if globMatchAt(p, n, pi+1, ni+skip) {
				return true
			}
		}
		return false
	case '?':
		return ni < len(n) && globMatchAt(p, n, pi+1, ni+1)
	default:
		return ni < len(n) && n[ni] == p[pi] && globMatchAt(p, n, pi+1, ni+1)
	}
}
