package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"github.com/mmynk/splitter/internal/calculator"
	"github.com/mmynk/splitter/internal/models"
	"github.com/mmynk/splitter/internal/render"
)

// templateCmd prints a ready-made form as a bill file.
type templateCmd struct {
	name     string
	synopsis string
	form     func() models.Form

	currency string
	stdout   io.Writer
	stderr   io.Writer
}

func newSampleCmd() *templateCmd {
	return &templateCmd{
		name:     "sample",
		synopsis: "print the sample bill as a YAML bill file",
		form:     calculator.Sample,
	}
}

func newBaselineCmd() *templateCmd {
	return &templateCmd{
		name:     "baseline",
		synopsis: "print the empty baseline bill as a YAML bill file",
		form:     calculator.Reset,
	}
}

func (c *templateCmd) Name() string     { return c.name }
func (c *templateCmd) Synopsis() string { return c.synopsis }
func (c *templateCmd) Usage() string {
	return fmt.Sprintf(`%s [-currency <code>]

  Prints a bill file that "split -f" accepts. Redirect it to a file and
  edit it to describe your own bill.
`, c.name)
}

func (c *templateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", render.DefaultCurrency, "display currency, 3-letter code")
}

func (c *templateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout, stderr := writers(c.stdout, c.stderr)
	if err := NewBillFile(c.form(), c.currency).Encode(stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
