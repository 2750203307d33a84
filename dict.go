package main

import (
	"context"
	"sort"
	"strings"
)

// word is a dictionary entry: either a builtin backed by a Go function
// or a user definition stored as its token sequence. User bodies are
// compiled lazily on first call and the result cached on the entry;
// redefinition installs a fresh entry, so the cache dies with the old
// one and late binding by name still holds.
type word struct {
	name string
	fn   func(context.Context, *VM) error
	doc  string
	body []Token
	prog *program
}

func (w *word) isBuiltin() bool { return w.fn != nil }

type dictionary struct {
	words map[string]*word
}

func newDictionary() *dictionary {
	return &dictionary{words: make(map[string]*word)}
}

// define installs w, shadowing any prior entry of the same name,
// builtin or not. Most recent definition wins.
func (d *dictionary) define(w *word) {
	d.words[w.name] = w
}

func (d *dictionary) lookup(name string) *word {
	return d.words[name]
}

func (d *dictionary) names() []string {
	names := make([]string, 0, len(d.words))
	for name := range d.words {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// describe renders what `see` shows for a word: the doc string for a
// builtin, the reconstructed definition for a user word.
func (w *word) describe() string {
	if w.isBuiltin() {
		if w.doc != "" {
			return w.name + ": " + w.doc
		}
		return w.name + " is a builtin word"
	}
	var sb strings.Builder
	sb.WriteString(": ")
	sb.WriteString(w.name)
	for _, tok := range w.body {
		sb.WriteByte(' ')
		if tok.Quoted {
			sb.WriteByte('"')
			sb.WriteString(tok.Text)
			sb.WriteByte('"')
		} else {
			sb.WriteString(tok.Text)
		}
	}
	sb.WriteString(" ;")
	return sb.String()
}
