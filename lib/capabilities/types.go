// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package capabilities

import (
	"fmt"
	"sort"
	"strings"
)

// CharSet is an immutable set of characters, such as channel prefixes or
// mode letters. Sets are replaced, never modified, once stored.
type CharSet map[rune]struct{}

// NewCharSet returns the set of characters in s.
func NewCharSet(s string) CharSet {
	set := make(CharSet, len(s))
	for _, char := range s {
		set[char] = struct{}{}
	}
	return set
}

// Has returns true if char is in the set.
func (set CharSet) Has(char rune) bool {
	_, exists := set[char]
	return exists
}

// IsSubsetOf returns true if every character of set is also in other.
func (set CharSet) IsSubsetOf(other CharSet) bool {
	for char := range set {
		if !other.Has(char) {
			return false
		}
	}
	return true
}

// Intersects returns true if the two sets share at least one character.
func (set CharSet) Intersects(other CharSet) bool {
	for char := range set {
		if other.Has(char) {
			return true
		}
	}
	return false
}

// Equal returns true if both sets hold the same characters.
func (set CharSet) Equal(other CharSet) bool {
	return len(set) == len(other) && set.IsSubsetOf(other)
}

// String returns the characters of the set, sorted.
func (set CharSet) String() string {
	chars := make([]rune, 0, len(set))
	for char := range set {
		chars = append(chars, char)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return string(chars)
}

// ChanModeKind is one of the four CHANMODES groups.
type ChanModeKind int

const (
	// ChanModeList modes add or remove an entry from a list (A type).
	ChanModeList ChanModeKind = iota
	// ChanModeParamAlways modes always take a parameter (B type).
	ChanModeParamAlways
	// ChanModeParamAddOnly modes take a parameter only when set (C type).
	ChanModeParamAddOnly
	// ChanModeNoParam modes never take a parameter (D type).
	ChanModeNoParam
)

// ChanModes holds the flags of each CHANMODES group, indexed by ChanModeKind.
type ChanModes [4]CharSet

// KindOf returns the group the given mode letter belongs to.
func (modes ChanModes) KindOf(mode rune) (ChanModeKind, bool) {
	for kind, flags := range modes {
		if flags.Has(mode) {
			return ChanModeKind(kind), true
		}
	}
	return 0, false
}

func (modes ChanModes) String() string {
	groups := make([]string, len(modes))
	for i, flags := range modes {
		groups[i] = flags.String()
	}
	return strings.Join(groups, ",")
}

// Limit is a numeric limit shared by a set of characters, as used by
// CHANLIMIT (channel prefixes) and MAXLIST (list mode letters).
type Limit struct {
	Chars CharSet
	Limit int
}

// Limits is an ordered list of Limit entries.
type Limits []Limit

// For returns the limit that applies to char.
func (limits Limits) For(char rune) (int, bool) {
	for _, limit := range limits {
		if limit.Chars.Has(char) {
			return limit.Limit, true
		}
	}
	return 0, false
}

// Chars returns the union of all characters with a limit.
func (limits Limits) Chars() CharSet {
	union := make(CharSet)
	for _, limit := range limits {
		for char := range limit.Chars {
			union[char] = struct{}{}
		}
	}
	return union
}

func (limits Limits) String() string {
	parts := make([]string, len(limits))
	for i, limit := range limits {
		parts[i] = fmt.Sprintf("%s:%d", limit.Chars, limit.Limit)
	}
	return strings.Join(parts, ",")
}

// PrefixMode maps a channel membership mode to the symbol shown before nicks.
type PrefixMode struct {
	Mode   rune
	Symbol rune
}

// Prefix is the ordered PREFIX mapping, highest rank first.
type Prefix []PrefixMode

// SymbolFor returns the symbol used for the given mode.
func (prefix Prefix) SymbolFor(mode rune) (rune, bool) {
	for _, pm := range prefix {
		if pm.Mode == mode {
			return pm.Symbol, true
		}
	}
	return 0, false
}

// Symbols returns the set of prefix symbols.
func (prefix Prefix) Symbols() CharSet {
	set := make(CharSet, len(prefix))
	for _, pm := range prefix {
		set[pm.Symbol] = struct{}{}
	}
	return set
}

// ModeLetters returns the set of prefix mode letters.
func (prefix Prefix) ModeLetters() CharSet {
	set := make(CharSet, len(prefix))
	for _, pm := range prefix {
		set[pm.Mode] = struct{}{}
	}
	return set
}

func (prefix Prefix) String() string {
	modes := make([]rune, len(prefix))
	symbols := make([]rune, len(prefix))
	for i, pm := range prefix {
		modes[i] = pm.Mode
		symbols[i] = pm.Symbol
	}
	return "(" + string(modes) + ")" + string(symbols)
}

// optInt is a length where !ok means "no limit".
type optInt struct {
	n  int
	ok bool
}

func limitOf(n int) optInt { return optInt{n: n, ok: true} }

func (o optInt) String() string {
	if !o.ok {
		return "unlimited"
	}
	return fmt.Sprintf("%d", o.n)
}
