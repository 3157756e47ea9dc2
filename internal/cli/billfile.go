package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitter/internal/calculator"
	"github.com/mmynk/splitter/internal/models"
)

// BillFile is the YAML representation of a form.
//
//	currency: SGD
//	gst: "9"
//	service_tax: "10"
//	participants: |
//	  Alice
//	  Bob
//	items: |
//	  soup 12.50
//	  rice 3
//	overrides:
//	  1: [Bob]
//
// Rates are kept as text so that a malformed value degrades to zero
// instead of failing the whole file.
type BillFile struct {
	Currency     string           `yaml:"currency,omitempty"`
	GST          string           `yaml:"gst"`
	ServiceTax   string           `yaml:"service_tax"`
	Participants string           `yaml:"participants"`
	Items        string           `yaml:"items"`
	Overrides    map[int][]string `yaml:"overrides,omitempty"`
}

// NewBillFile converts form into its YAML representation.
func NewBillFile(form models.Form, currency string) *BillFile {
	return &BillFile{
		Currency:     currency,
		GST:          strconv.FormatFloat(form.GSTRate, 'f', -1, 64),
		ServiceTax:   strconv.FormatFloat(form.ServiceTaxRate, 'f', -1, 64),
		Participants: form.ParticipantsText,
		Items:        form.ItemsText,
		Overrides:    form.Clone().Overrides,
	}
}

// DecodeBillFile reads a bill file from r.
func DecodeBillFile(r io.Reader) (*BillFile, error) {
	var bf BillFile
	if err := yaml.NewDecoder(r).Decode(&bf); err != nil {
		if err == io.EOF {
			return &bf, nil
		}
		return nil, fmt.Errorf("failed to decode bill file: %w", err)
	}
	return &bf, nil
}

// ReadBillFile reads a bill file from path, or from stdin when path is "-".
func ReadBillFile(path string) (*BillFile, error) {
	if path == "-" {
		return DecodeBillFile(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bill file: %w", err)
	}
	defer f.Close()
	return DecodeBillFile(f)
}

// Encode writes bf as YAML to w.
func (bf *BillFile) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(bf); err != nil {
		return fmt.Errorf("failed to encode bill file: %w", err)
	}
	return enc.Close()
}

// Form converts bf into a form. Each malformed rate is reported in warnings
// and counts as zero.
func (bf *BillFile) Form() (form models.Form, warnings []string) {
	form = models.Form{
		ItemsText:        bf.Items,
		ParticipantsText: bf.Participants,
	}
	form.GSTRate, warnings = rate("gst", bf.GST, warnings)
	form.ServiceTaxRate, warnings = rate("service_tax", bf.ServiceTax, warnings)
	if len(bf.Overrides) > 0 {
		form.Overrides = models.Form{Overrides: bf.Overrides}.Clone().Overrides
	}
	return form, warnings
}

func rate(name, text string, warnings []string) (float64, []string) {
	if text == "" {
		return 0, warnings
	}
	value, ok := calculator.ParseRate(text)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%s: %q is not a number, using 0", name, text))
	}
	return value, warnings
}
