package display

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	"github.com/yasmagic/elasticrtc-tools/pkg/table"
	"gopkg.in/yaml.v3"
)

const (
	Line = "\n====================================\n"

	indent  = "     "
	indent2 = indent + indent
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Reporter writes command results in the selected output format.
type Reporter struct {
	out    io.Writer
	format models.OutputFormat
}

func NewReporter(out io.Writer, format models.OutputFormat) *Reporter {
	if format == "" {
		format = models.OutputText
	}
	return &Reporter{out: out, format: format}
}

func (r *Reporter) List(stacks []models.StackSummary) error {
	if stacks == nil {
		stacks = []models.StackSummary{}
	}
	if r.format != models.OutputText {
		return r.encode(stacks)
	}

	var b strings.Builder
	b.WriteString(Line)
	b.WriteString(titleStyle.Render("List Kurento Cluster stacks:") + "\n")
	t := table.NewStackTable(&b)
	for _, s := range stacks {
		t.AddStack(s)
	}
	if t.Len() > 0 {
		t.Render()
	} else {
		b.WriteString(indent + "No clusters found\n")
	}
	b.WriteString(Line)
	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Reporter) Show(details *models.ClusterDetails) error {
	if details.Instances == nil {
		details.Instances = []models.InstanceInfo{}
	}
	if r.format != models.OutputText {
		return r.encode(details)
	}

	var b strings.Builder
	b.WriteString(Line)
	b.WriteString(titleStyle.Render("Kurento Cluster: "+details.Name) + "\n")
	b.WriteString(indent + "URL\n")
	b.WriteString(indent2 + details.URL + "\n")
	if details.NeedsManualCNAME() {
		b.WriteString(indent2 + "Note: Following CNAME record must be manually created: \n")
		b.WriteString(indent2 + "    " + details.ClusterCname + "  CNAME  " + details.AWSCname + "\n")
	}
	fmt.Fprintf(&b, "\n%sInstances : %d\n", indent, len(details.Instances))
	for _, i := range details.Instances {
		b.WriteString(indent2 + i.ID + " : " + i.PrivateIP + "/" + i.PublicIP + "\n")
	}
	b.WriteString(Line)
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Deleted confirms a finished delete. Text output relies on the progress
// lines already printed.
func (r *Reporter) Deleted(name string) error {
	if r.format == models.OutputText {
		return nil
	}
	return r.encode(models.StackSummary{Name: name, Status: "DELETE_COMPLETE"})
}

func (r *Reporter) encode(v interface{}) error {
	switch r.format {
	case models.OutputYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		_, err = fmt.Fprintln(r.out, string(data))
		return err
	}
}

// PrintError writes err framed by banner lines. Usage errors also carry the
// help of the offending option.
func PrintError(w io.Writer, err error) {
	var usageErr *models.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprint(w, Line)
		if usageErr.Message != "" {
			fmt.Fprintln(w, usageErr.Message)
		}
		fmt.Fprint(w, usageErr.Usage)
		fmt.Fprint(w, Line)
		return
	}
	fmt.Fprint(w, Line)
	fmt.Fprintln(w, errorStyle.Render("ERROR:")+" "+err.Error())
	fmt.Fprint(w, Line)
}
