// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package capabilities

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// capability describes how one ISUPPORT token is handled.
type capability struct {
	// parse turns the raw value into a typed one. valued is false when the
	// token had no '=' at all.
	parse func(name, raw string, valued bool) (interface{}, error)
	// validate checks a parsed value against the rest of the set.
	validate func(c *ServerCapabilities, v interface{}) error
	apply    func(c *ServerCapabilities, v interface{})
	// current returns the stored value, set is false when there is nothing
	// to check it against.
	current func(c *ServerCapabilities) (v interface{}, set bool)
	def     func() interface{}
	// dependents are re-validated after this capability changes.
	dependents []string
}

var fields = map[string]capability{
	"CASEMAPPING": {
		parse: func(name, raw string, valued bool) (interface{}, error) {
			switch raw {
			case "ascii":
				return raw, nil
			case "rfc1459", "strict-rfc1459":
				return nil, &UnsupportedError{Capability: name, Value: raw}
			}
			return nil, valueErr(name, raw)
		},
		apply:   func(c *ServerCapabilities, v interface{}) { c.casemapping = v.(string) },
		current: func(c *ServerCapabilities) (interface{}, bool) { return c.casemapping, true },
		def:     func() interface{} { return "ascii" },
	},

	"CHANLIMIT": {
		parse:    parseLimits,
		validate: validateChanLimit,
		apply:    func(c *ServerCapabilities, v interface{}) { c.chanLimit = v.(Limits) },
		current:  func(c *ServerCapabilities) (interface{}, bool) { return c.chanLimit, c.chanLimit != nil },
		def:      func() interface{} { return Limits(nil) },
	},

	"CHANMODES": {
		parse: func(name, raw string, valued bool) (interface{}, error) {
			if !valued {
				return nil, valueErr(name, raw)
			}
			groups := strings.Split(strings.TrimSpace(raw), ",")
			if len(groups) < 4 {
				return nil, valueErr(name, raw)
			}
			// anything past the fourth group is a future extension
			var modes ChanModes
			for i := range modes {
				modes[i] = NewCharSet(groups[i])
			}
			return &modes, nil
		},
		apply:      func(c *ServerCapabilities, v interface{}) { c.chanModes = v.(*ChanModes) },
		current:    func(c *ServerCapabilities) (interface{}, bool) { return c.chanModes, c.chanModes != nil },
		def:        func() interface{} { return (*ChanModes)(nil) },
		dependents: []string{"EXCEPTS", "INVEX", "MAXLIST", "PREFIX"},
	},

	"CHANNELLEN": lengthCapability(func(c *ServerCapabilities) *optInt { return &c.channelLen }, limitOf(200)),

	"CHANTYPES": {
		parse: func(name, raw string, valued bool) (interface{}, error) {
			return NewCharSet(raw), nil
		},
		apply:      func(c *ServerCapabilities, v interface{}) { c.chanTypes = v.(CharSet) },
		current:    func(c *ServerCapabilities) (interface{}, bool) { return c.chanTypes, true },
		def:        func() interface{} { return NewCharSet("#&") },
		dependents: []string{"CHANLIMIT", "STATUSMSG"},
	},

	"EXCEPTS": listFlagCapability("EXCEPTS", func(c *ServerCapabilities) *rune { return &c.excepts }, 'e'),

	"INVEX": listFlagCapability("INVEX", func(c *ServerCapabilities) *rune { return &c.invex }, 'I'),

	"KICKLEN": lengthCapability(func(c *ServerCapabilities) *optInt { return &c.kickLen }, optInt{}),

	"MAXLIST": {
		parse:    parseLimits,
		validate: validateMaxList,
		apply:    func(c *ServerCapabilities, v interface{}) { c.maxList = v.(Limits) },
		current:  func(c *ServerCapabilities) (interface{}, bool) { return c.maxList, c.maxList != nil },
		def:      func() interface{} { return Limits(nil) },
	},

	"MODES": lengthCapability(func(c *ServerCapabilities) *optInt { return &c.modes }, limitOf(3)),

	"NETWORK": {
		parse: func(name, raw string, valued bool) (interface{}, error) {
			if raw == "" {
				return nil, valueErr(name, raw)
			}
			return raw, nil
		},
		apply:   func(c *ServerCapabilities, v interface{}) { c.network = v.(string) },
		current: func(c *ServerCapabilities) (interface{}, bool) { return c.network, c.network != "" },
		def:     func() interface{} { return "" },
	},

	"NICKLEN": lengthCapability(func(c *ServerCapabilities) *optInt { return &c.nickLen }, limitOf(9)),

	"PREFIX": {
		parse:      parsePrefix,
		validate:   validatePrefix,
		apply:      func(c *ServerCapabilities, v interface{}) { c.prefix = v.(Prefix) },
		current:    func(c *ServerCapabilities) (interface{}, bool) { return c.prefix, len(c.prefix) > 0 },
		def:        func() interface{} { return Prefix{{Mode: 'o', Symbol: '@'}, {Mode: 'v', Symbol: '+'}} },
		dependents: []string{"STATUSMSG"},
	},

	"SAFELIST": {
		parse: func(name, raw string, valued bool) (interface{}, error) {
			if valued {
				return nil, valueErr(name, raw)
			}
			return true, nil
		},
		apply:   func(c *ServerCapabilities, v interface{}) { c.safeList = v.(bool) },
		current: func(c *ServerCapabilities) (interface{}, bool) { return c.safeList, true },
		def:     func() interface{} { return false },
	},

	"STATUSMSG": {
		parse: func(name, raw string, valued bool) (interface{}, error) {
			return NewCharSet(raw), nil
		},
		validate: validateStatusMsg,
		apply:    func(c *ServerCapabilities, v interface{}) { c.statusMsg = v.(CharSet) },
		current:  func(c *ServerCapabilities) (interface{}, bool) { return c.statusMsg, len(c.statusMsg) > 0 },
		def:      func() interface{} { return CharSet{} },
	},

	"TARGMAX": {
		parse:   parseTargMax,
		apply:   func(c *ServerCapabilities, v interface{}) { c.targMax = v.(map[string]int) },
		current: func(c *ServerCapabilities) (interface{}, bool) { return c.targMax, len(c.targMax) > 0 },
		def:     func() interface{} { return map[string]int{} },
	},

	"TOPICLEN": lengthCapability(func(c *ServerCapabilities) *optInt { return &c.topicLen }, optInt{}),
}

func sortedNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lengthCapability builds a numeric capability where a missing or empty
// value means there is no limit.
func lengthCapability(field func(c *ServerCapabilities) *optInt, def optInt) capability {
	return capability{
		parse: func(name, raw string, valued bool) (interface{}, error) {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				return optInt{}, nil
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, valueErr(name, raw)
			}
			return limitOf(n), nil
		},
		apply:   func(c *ServerCapabilities, v interface{}) { *field(c) = v.(optInt) },
		current: func(c *ServerCapabilities) (interface{}, bool) { return *field(c), true },
		def:     func() interface{} { return def },
	}
}

// listFlagCapability builds EXCEPTS/INVEX, a single A type mode letter with
// a conventional default letter.
func listFlagCapability(name string, field func(c *ServerCapabilities) *rune, conventional rune) capability {
	return capability{
		parse: func(name, raw string, valued bool) (interface{}, error) {
			if raw == "" {
				return conventional, nil
			}
			if utf8.RuneCountInString(raw) != 1 {
				return nil, valueErr(name, raw)
			}
			mode, _ := utf8.DecodeRuneInString(raw)
			return mode, nil
		},
		validate: func(c *ServerCapabilities, v interface{}) error {
			mode := v.(rune)
			if c.chanModes != nil && !c.chanModes[ChanModeList].Has(mode) {
				return logicErr(name, "channel mode %q is not an A type mode in CHANMODES", string(mode))
			}
			return nil
		},
		apply:   func(c *ServerCapabilities, v interface{}) { *field(c) = v.(rune) },
		current: func(c *ServerCapabilities) (interface{}, bool) { return *field(c), *field(c) != 0 },
		def:     func() interface{} { return rune(0) },
	}
}

// parseLimits parses "chars:limit,chars:limit" as used by CHANLIMIT and
// MAXLIST. An empty list is not allowed.
func parseLimits(name, raw string, valued bool) (interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, valueErr(name, raw)
	}

	var limits Limits
	for _, entry := range strings.Split(strings.TrimSpace(raw), ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 2 {
			return nil, valueErr(name, raw)
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, valueErr(name, raw)
		}
		limits = limits.with(NewCharSet(parts[0]), n)
	}
	return limits, nil
}

// with returns limits plus the given entry, replacing an entry for the same
// characters.
func (limits Limits) with(chars CharSet, n int) Limits {
	for i, limit := range limits {
		if limit.Chars.Equal(chars) {
			limits[i].Limit = n
			return limits
		}
	}
	return append(limits, Limit{Chars: chars, Limit: n})
}

func validateChanLimit(c *ServerCapabilities, v interface{}) error {
	for _, limit := range v.(Limits) {
		if !limit.Chars.IsSubsetOf(c.chanTypes) {
			return logicErr("CHANLIMIT", "channel prefixes %q are not all in CHANTYPES %q", limit.Chars.String(), c.chanTypes.String())
		}
	}
	return nil
}

func validateMaxList(c *ServerCapabilities, v interface{}) error {
	if c.chanModes == nil {
		return nil
	}
	listModes := c.chanModes[ChanModeList]
	if flags := v.(Limits).Chars(); !flags.Equal(listModes) {
		return logicErr("MAXLIST", "limits set for modes %q, but CHANMODES has A type modes %q", flags.String(), listModes.String())
	}
	return nil
}

// parsePrefix parses "(modes)symbols". An empty value means no prefixes.
func parsePrefix(name, raw string, valued bool) (interface{}, error) {
	if raw == "" {
		return Prefix{}, nil
	}
	if raw[0] != '(' {
		return nil, valueErr(name, raw)
	}

	mapping := strings.Split(raw[1:], ")")
	if len(mapping) != 2 {
		return nil, valueErr(name, raw)
	}
	modes, symbols := []rune(mapping[0]), []rune(mapping[1])
	if len(modes) != len(symbols) {
		return nil, valueErr(name, raw)
	}

	prefix := make(Prefix, len(modes))
	for i := range modes {
		prefix[i] = PrefixMode{Mode: modes[i], Symbol: symbols[i]}
	}
	return prefix, nil
}

func validatePrefix(c *ServerCapabilities, v interface{}) error {
	if c.chanModes == nil {
		return nil
	}
	prefixModes := v.(Prefix).ModeLetters()
	for _, modes := range c.chanModes {
		if modes.Intersects(prefixModes) {
			return logicErr("PREFIX", "modes %q are also defined in CHANMODES", prefixModes.String())
		}
	}
	return nil
}

func validateStatusMsg(c *ServerCapabilities, v interface{}) error {
	statusMsg := v.(CharSet)
	if len(c.prefix) == 0 {
		return logicErr("STATUSMSG", "depends on PREFIX, but PREFIX is empty")
	}
	if symbols := c.prefix.Symbols(); !statusMsg.IsSubsetOf(symbols) {
		return logicErr("STATUSMSG", "prefixes %q are not all in PREFIX %q", statusMsg.String(), c.prefix.String())
	}
	if statusMsg.Intersects(c.chanTypes) {
		return logicErr("STATUSMSG", "prefixes %q overlap with CHANTYPES %q", statusMsg.String(), c.chanTypes.String())
	}
	return nil
}

// parseTargMax parses "COMMAND:limit,...". A missing limit means unlimited,
// stored as UnlimitedTargets.
func parseTargMax(name, raw string, valued bool) (interface{}, error) {
	targMax := make(map[string]int)
	if raw == "" {
		return targMax, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			return nil, valueErr(name, raw)
		}

		limit := UnlimitedTargets
		if parts[1] != "" {
			n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, valueErr(name, raw)
			}
			limit = n
		}
		targMax[strings.ToUpper(parts[0])] = limit
	}
	return targMax, nil
}
