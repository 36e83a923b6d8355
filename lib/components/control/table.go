// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyircComponentControl

import (
	"bytes"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/Screwperman/pyirc/lib/ircclient"
)

/**
 * Table writer outputs to a Writer interface but we need lines to send.
 * This simply wraps the tablewriter.Table interface with a buffer
 * and adds a few helper functions
 */

type Table struct {
	*tablewriter.Table
	Out *bytes.Buffer
}

func NewTable() *Table {
	table := &Table{
		Out: new(bytes.Buffer),
	}
	table.Table = tablewriter.NewWriter(table.Out)
	return table
}
func (table *Table) RenderToLines() []string {
	table.Render()
	out := strings.Trim(table.Out.String(), "\n")
	return strings.Split(out, "\n")
}

// sendLines sends each line to target with the given command.
func sendLines(client *ircclient.Client, target string, command string, lines []string) {
	for _, line := range lines {
		if err := client.Send(command, target, line); err != nil {
			return
		}
	}
}
