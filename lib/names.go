// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package pyirc

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/secure/precis"
)

var (
	errNameBadChar = errors.New("Name contained a disallowed character")
	errNameDigit   = errors.New("The first character of a name cannot be a digit")
	errNameSpace   = errors.New("Names cannot contain whitespace")
	errNameNil     = errors.New("Names need to be at least one character long")
)

// IrcName returns a name appropriate for IRC use (nick/user/channel), or an error if the name is bad.
func IrcName(name string, isChannel bool) (string, error) {
	name = strings.TrimSpace(name)

	if len(name) < 1 {
		return "", errNameNil
	}

	for _, char := range name {
		// exclude space characters
		if unicode.IsSpace(char) {
			return "", errNameSpace
		}
		// exclude other characters that mess with the protocol
		if isChannel {
			if strings.ContainsRune(",?*:\x07", char) {
				return "", errNameBadChar
			}
		} else {
			if strings.ContainsRune(",.!@#?*:", char) {
				return "", errNameBadChar
			}
		}
	}

	if !isChannel && strings.ContainsRune("0123456789-", rune(name[0])) {
		return "", errNameDigit
	}

	return name, nil
}

// NetworkName takes the given name and returns a casefolded name to key
// networks by, in the config and in the datastore.
func NetworkName(name string) (string, error) {
	name, err := precis.UsernameCaseMapped.CompareKey(strings.TrimSpace(name))
	if err != nil {
		return "", err
	}

	if len(name) < 1 {
		return "", errNameNil
	}

	for _, char := range name {
		// exclude space characters
		if unicode.IsSpace(char) {
			return "", errNameSpace
		}
		// exclude other characters that seem like they could be bad
		if strings.ContainsRune(",.=!@#*%&$/\\", char) {
			return "", errNameBadChar
		}
	}

	if strings.ContainsRune("0123456789", rune(name[0])) {
		return "", errNameDigit
	}

	return name, nil
}
