// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package pyirc

import (
	"fmt"
)

const (
	// SemVer is the semantic version of pyirc.
	SemVer = "0.1.0-unreleased"
)

var (
	// Ver is the full version of pyirc, used as the default realname.
	Ver = fmt.Sprintf("pyirc-%s", SemVer)
)
