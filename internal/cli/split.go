package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/mmynk/splitter/internal/calculator"
	"github.com/mmynk/splitter/internal/models"
	"github.com/mmynk/splitter/internal/render"
)

type splitCmd struct {
	file       string
	itemsFile  string
	peopleFile string
	gst        string
	service    string
	currency   string
	sample     bool
	plain      bool

	stdout io.Writer
	stderr io.Writer
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "split a bill between its participants" }
func (*splitCmd) Usage() string {
	return `split [-f <bill.yaml> | -sample] [-items <file>] [-people <file>] [-gst <rate>] [-service <rate>] [-currency <code>] [-plain]

  Computes how much each participant owes, GST and service tax included.
  The bill starts from a YAML bill file (-f, "-" for stdin), the sample
  bill (-sample) or the empty baseline. -items, -people, -gst and -service
  replace the corresponding part of that bill.

  A price or rate that is not a number counts as zero and is reported.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "YAML bill file, - for stdin")
	f.StringVar(&c.itemsFile, "items", "", "text file with one \"name price\" item per line")
	f.StringVar(&c.peopleFile, "people", "", "text file with one participant per line")
	f.StringVar(&c.gst, "gst", "", "GST rate in percent")
	f.StringVar(&c.service, "service", "", "service tax rate in percent")
	f.StringVar(&c.currency, "currency", "", "display currency, 3-letter code (default from the bill file, else "+render.DefaultCurrency+")")
	f.BoolVar(&c.sample, "sample", false, "start from the sample bill")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown instead of rendering it")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout, stderr := writers(c.stdout, c.stderr)

	if c.file != "" && c.sample {
		fmt.Fprintln(stderr, "Error: -f and -sample are mutually exclusive.")
		return subcommands.ExitUsageError
	}
	if f.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments %q.\n", f.Args())
		return subcommands.ExitUsageError
	}

	form, currency, warnings, err := c.form()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, w := range warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}

	result := calculator.Evaluate(form)
	slog.Debug("bill evaluated",
		"items", len(result.Bill.Items),
		"participants", len(result.Bill.Participants),
		"total", result.Summary.Total,
	)
	for i, item := range result.Bill.Items {
		if item.Malformed {
			fmt.Fprintf(stderr, "Warning: item %d (%s) has no valid price, using 0\n", i, item.Name)
		}
	}

	if err := printMarkdown(stdout, render.Markdown(result, currency), c.plain); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// form assembles the form from the bill file or the sample, then applies
// the text files and rate flags on top.
func (c *splitCmd) form() (form models.Form, currency string, warnings []string, err error) {
	switch {
	case c.file != "":
		bf, err := ReadBillFile(c.file)
		if err != nil {
			return form, "", nil, err
		}
		form, warnings = bf.Form()
		currency = bf.Currency
	case c.sample:
		form = calculator.Sample()
	default:
		form = calculator.Reset()
	}

	if c.itemsFile != "" {
		text, err := os.ReadFile(c.itemsFile)
		if err != nil {
			return form, "", nil, fmt.Errorf("failed to read items: %w", err)
		}
		form.ItemsText = string(text)
	}
	if c.peopleFile != "" {
		text, err := os.ReadFile(c.peopleFile)
		if err != nil {
			return form, "", nil, fmt.Errorf("failed to read participants: %w", err)
		}
		form.ParticipantsText = string(text)
	}
	if c.gst != "" {
		form.GSTRate, warnings = rate("gst", c.gst, warnings)
	}
	if c.service != "" {
		form.ServiceTaxRate, warnings = rate("service", c.service, warnings)
	}

	if c.currency != "" {
		currency = c.currency
	}
	if currency == "" {
		currency = render.DefaultCurrency
	}
	return form, currency, warnings, nil
}

// writers defaults unset command output to the process streams.
func writers(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}

// printMarkdown renders md for the terminal unless plain is set.
func printMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
