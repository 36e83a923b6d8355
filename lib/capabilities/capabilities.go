// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package capabilities tracks the server capabilities advertised with
// RPL_ISUPPORT (numeric 005).
//
// Many capabilities depend on each other, for instance CHANLIMIT may only
// use prefixes listed in CHANTYPES. Every update is checked against the rest
// of the set and either applies completely or leaves the set untouched.
package capabilities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// UnlimitedTargets stands in for "no limit" in TARGMAX. It's not infinity,
// but no server takes more targets than this in practice.
const UnlimitedTargets = 1000

// ServerCapabilities holds the capabilities of one IRC server.
//
// The zero value is not usable, create one with New.
type ServerCapabilities struct {
	casemapping string
	chanLimit   Limits
	chanModes   *ChanModes
	channelLen  optInt
	chanTypes   CharSet
	excepts     rune
	invex       rune
	kickLen     optInt
	maxList     Limits
	modes       optInt
	network     string
	nickLen     optInt
	prefix      Prefix
	safeList    bool
	statusMsg   CharSet
	targMax     map[string]int
	topicLen    optInt

	unknown map[string]string
	tokens  []string
}

// New returns a capability set holding the defaults assumed before the
// server says anything.
func New() *ServerCapabilities {
	c := &ServerCapabilities{
		unknown: make(map[string]string),
	}
	for _, cap := range fields {
		cap.apply(c, cap.def())
	}
	return c
}

// Casemapping returns the CASEMAPPING in use.
func (c *ServerCapabilities) Casemapping() string { return c.casemapping }

// ChanLimit returns the CHANLIMIT entries, or nil if the server sent none.
func (c *ServerCapabilities) ChanLimit() Limits { return c.chanLimit }

// ChanModes returns the CHANMODES groups and whether the server sent them.
func (c *ServerCapabilities) ChanModes() (ChanModes, bool) {
	if c.chanModes == nil {
		return ChanModes{}, false
	}
	return *c.chanModes, true
}

// ChannelLen returns the maximum channel name length, ok is false for no limit.
func (c *ServerCapabilities) ChannelLen() (n int, ok bool) { return c.channelLen.n, c.channelLen.ok }

// ChanTypes returns the set of channel prefixes.
func (c *ServerCapabilities) ChanTypes() CharSet { return c.chanTypes }

// IsChannel returns true if target starts with one of the channel prefixes.
func (c *ServerCapabilities) IsChannel(target string) bool {
	for _, char := range target {
		return c.chanTypes.Has(char)
	}
	return false
}

// Excepts returns the ban exception mode, ok is false if unsupported.
func (c *ServerCapabilities) Excepts() (mode rune, ok bool) { return c.excepts, c.excepts != 0 }

// Invex returns the invite exception mode, ok is false if unsupported.
func (c *ServerCapabilities) Invex() (mode rune, ok bool) { return c.invex, c.invex != 0 }

// KickLen returns the maximum kick comment length, ok is false for no limit.
func (c *ServerCapabilities) KickLen() (n int, ok bool) { return c.kickLen.n, c.kickLen.ok }

// MaxList returns the MAXLIST entries, or nil if the server sent none.
func (c *ServerCapabilities) MaxList() Limits { return c.maxList }

// Modes returns how many parameterised modes fit in one MODE command,
// ok is false for no limit.
func (c *ServerCapabilities) Modes() (n int, ok bool) { return c.modes.n, c.modes.ok }

// Network returns the network name, blank if the server did not send one.
func (c *ServerCapabilities) Network() string { return c.network }

// NickLen returns the maximum nickname length, ok is false when there is
// no limit.
func (c *ServerCapabilities) NickLen() (n int, ok bool) { return c.nickLen.n, c.nickLen.ok }

// Prefix returns the channel membership prefixes.
func (c *ServerCapabilities) Prefix() Prefix { return c.prefix }

// SafeList returns true if LIST won't get us disconnected for flooding.
func (c *ServerCapabilities) SafeList() bool { return c.safeList }

// StatusMsg returns the prefixes that may be put in front of a channel name
// to message only members with that status.
func (c *ServerCapabilities) StatusMsg() CharSet { return c.statusMsg }

// TargMax returns the TARGMAX limits keyed by uppercase command name.
func (c *ServerCapabilities) TargMax() map[string]int {
	targMax := make(map[string]int, len(c.targMax))
	for command, limit := range c.targMax {
		targMax[command] = limit
	}
	return targMax
}

// TargetLimit returns how many targets the given command accepts.
func (c *ServerCapabilities) TargetLimit(command string) (int, bool) {
	limit, exists := c.targMax[strings.ToUpper(command)]
	return limit, exists
}

// TopicLen returns the maximum topic length, ok is false for no limit.
func (c *ServerCapabilities) TopicLen() (n int, ok bool) { return c.topicLen.n, c.topicLen.ok }

// Unknown returns the raw values of capabilities we don't interpret.
func (c *ServerCapabilities) Unknown() map[string]string {
	unknown := make(map[string]string, len(c.unknown))
	for name, value := range c.unknown {
		unknown[name] = value
	}
	return unknown
}

// Tokens returns the ISUPPORT tokens that built the current state, ordered
// so that feeding them to a fresh set rebuilds it. Tokens keep the order they
// were applied in, except that one is moved after the tokens it needs.
func (c *ServerCapabilities) Tokens() []string {
	pending := append([]string(nil), c.tokens...)
	ordered := make([]string, 0, len(pending))
	scratch := New()

	for len(pending) > 0 {
		var deferred []string
		for _, token := range pending {
			if err := scratch.SetCapability(token); err != nil {
				deferred = append(deferred, token)
				continue
			}
			ordered = append(ordered, token)
		}
		if len(deferred) == len(pending) {
			// can't happen for a consistent set
			return append(ordered, deferred...)
		}
		pending = deferred
	}
	return ordered
}

// SetCapabilities applies the space-separated ISUPPORT tokens in the given
// order, stopping at the first one that fails.
//
// Order matters: CHANLIMIT=@:5 fails unless CHANTYPES=@ came before it.
func (c *ServerCapabilities) SetCapabilities(tokens string) error {
	for _, token := range strings.Split(tokens, " ") {
		if token == "" {
			continue
		}
		if err := c.SetCapability(token); err != nil {
			return err
		}
	}
	return nil
}

// SetCapability applies a single ISUPPORT token, such as "TOPICLEN=5",
// "SAFELIST" or "-EXCEPTS". On error nothing is changed.
func (c *ServerCapabilities) SetCapability(token string) error {
	if strings.HasPrefix(token, "-") {
		return c.ResetCapability(token[1:])
	}

	name, value, valued := strings.Cut(token, "=")
	name = strings.ToUpper(name)
	if name == "" {
		return valueErr(name, value)
	}

	cap, known := fields[name]
	if !known {
		next := c.clone()
		next.unknown = copyMap(c.unknown)
		next.unknown[name] = value
		next.remember(name, token)
		*c = *next
		return nil
	}

	v, err := cap.parse(name, value, valued)
	if err != nil {
		return err
	}

	next := c.clone()
	if cap.validate != nil {
		if err := cap.validate(next, v); err != nil {
			return err
		}
	}
	cap.apply(next, v)
	if err := next.revalidate(name, cap.dependents); err != nil {
		return err
	}

	next.remember(name, token)
	*c = *next
	return nil
}

// ResetCapability restores the default value of the named capability, as
// when the server sends "-NAME". Capabilities depending on it must still
// hold with the default, otherwise nothing is changed.
func (c *ServerCapabilities) ResetCapability(name string) error {
	name = strings.ToUpper(name)

	cap, known := fields[name]
	if !known {
		next := c.clone()
		next.unknown = copyMap(c.unknown)
		delete(next.unknown, name)
		next.forget(name)
		*c = *next
		return nil
	}

	next := c.clone()
	cap.apply(next, cap.def())
	if v, set := cap.current(next); set && cap.validate != nil {
		if err := cap.validate(next, v); err != nil {
			return err
		}
	}
	if err := next.revalidate(name, cap.dependents); err != nil {
		return err
	}

	next.forget(name)
	*c = *next
	return nil
}

// clone returns a shallow copy. Stored values are replaced, never modified,
// so sharing them between copies is safe.
func (c *ServerCapabilities) clone() *ServerCapabilities {
	next := *c
	next.tokens = append([]string(nil), c.tokens...)
	return &next
}

// revalidate checks that the named dependents still hold.
func (c *ServerCapabilities) revalidate(name string, dependents []string) error {
	for _, depName := range dependents {
		dep := fields[depName]
		v, set := dep.current(c)
		if !set {
			continue
		}

		err := dep.validate(c, v)
		var logicError *LogicError
		if errors.As(err, &logicError) {
			return logicErr(name, "conflicts with %s (%s)", depName, logicError.Reason)
		} else if err != nil {
			return err
		}
	}
	return nil
}

// remember records the token for the given capability after every other
// one, dropping an earlier token for the same capability.
func (c *ServerCapabilities) remember(name, token string) {
	c.forget(name)
	c.tokens = append(c.tokens, token)
}

func (c *ServerCapabilities) forget(name string) {
	kept := c.tokens[:0]
	for _, existing := range c.tokens {
		if tokenName(existing) != name {
			kept = append(kept, existing)
		}
	}
	c.tokens = kept
}

func tokenName(token string) string {
	name, _, _ := strings.Cut(token, "=")
	return strings.ToUpper(name)
}

func copyMap(m map[string]string) map[string]string {
	copied := make(map[string]string, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}

// Names returns the names of all the capabilities we interpret, sorted.
func Names() []string {
	return sortedNames()
}

// Describe returns a printable form of the named capability's current value.
func (c *ServerCapabilities) Describe(name string) (string, error) {
	cap, known := fields[strings.ToUpper(name)]
	if !known {
		value, exists := c.unknown[strings.ToUpper(name)]
		if !exists {
			return "", fmt.Errorf("%w: unknown capability %s", ErrCapability, name)
		}
		return value, nil
	}

	v, set := cap.current(c)
	if !set {
		return "-", nil
	}
	return describe(v), nil
}

func describe(v interface{}) string {
	switch value := v.(type) {
	case rune:
		return string(value)
	case map[string]int:
		commands := make([]string, 0, len(value))
		for command := range value {
			commands = append(commands, command)
		}
		sort.Strings(commands)
		for i, command := range commands {
			commands[i] = fmt.Sprintf("%s:%d", command, value[command])
		}
		return strings.Join(commands, ",")
	default:
		return fmt.Sprint(value)
	}
}
