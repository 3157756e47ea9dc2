// Package cli implements the splitter command line.
package cli

import "github.com/google/subcommands"

// Register adds the bill commands to c.
func Register(c *subcommands.Commander) {
	c.Register(&splitCmd{}, "bill")
	c.Register(newSampleCmd(), "bill")
	c.Register(newBaselineCmd(), "bill")
}
