package table

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

type StackTable struct {
	table *tablewriter.Table
	rows  int
}

func NewStackTable(w io.Writer) *StackTable {
	if w == nil {
		w = os.Stdout
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Status"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return &StackTable{table: table}
}

func (st *StackTable) AddStack(stack models.StackSummary) {
	st.table.Append([]string{stack.Name, stack.Status})
	st.rows++
}

func (st *StackTable) Len() int {
	return st.rows
}

func (st *StackTable) Render() {
	st.table.Render()
}
