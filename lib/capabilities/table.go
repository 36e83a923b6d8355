// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package capabilities

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Table writes the capability set as a table, interpreted capabilities
// first, then the ones we only keep verbatim.
func (c *ServerCapabilities) Table(out io.Writer) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Capability", "Value"})
	table.SetAutoWrapText(false)

	for _, name := range sortedNames() {
		value, _ := c.Describe(name)
		table.Append([]string{name, value})
	}

	unknown := make([]string, 0, len(c.unknown))
	for name := range c.unknown {
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		table.Append([]string{name, c.unknown[name] + " (raw)"})
	}

	table.Render()
}

// TableLines renders Table and splits it into lines, handy for sending the
// table somewhere line by line.
func (c *ServerCapabilities) TableLines() []string {
	out := new(bytes.Buffer)
	c.Table(out)
	return strings.Split(strings.Trim(out.String(), "\n"), "\n")
}
