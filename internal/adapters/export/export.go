// Package export renders ledger query results as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const dateLayout = "2006-01-02"

// ParseFormat accepts csv and xlsx, case-insensitively. Empty means csv.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", apperrors.NewValidationError("unsupported export format %q", raw)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds an attachment name such as cash-flows_20260615.xlsx.
func (f Format) FileName(base string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", base, at.Format("20060102"), f)
}

// table is the format-independent shape of an export.
type table struct {
	sheet  string
	header []string
	rows   [][]any
}

var cashFlowHeader = []string{
	"Reference", "Date", "Type", "Status", "Label", "Category", "Account", "Destination account",
	"Amount", "Tax", "Currency", "Payment method", "Third party", "Third party reference",
	"Reconciled", "Reversal", "Reversed",
}

func cashFlowRow(cf domain.CashFlow, categoryNames map[string]string) []any {
	category := cf.CategoryID
	if name, ok := categoryNames[cf.CategoryID]; ok {
		category = name
	}
	destination := ""
	if cf.DestinationAccountID != nil {
		destination = *cf.DestinationAccountID
	}
	return []any{
		cf.Reference, cf.Date.Format(dateLayout), string(cf.Type), string(cf.Status), cf.Label, category,
		cf.AccountID, destination, cf.Amount, cf.TaxAmount, cf.Currency, string(cf.PaymentMethod),
		cf.ThirdPartyName, cf.ThirdPartyReference, yesNo(cf.IsReconciled), yesNo(cf.IsReversal), yesNo(cf.IsReversed),
	}
}

// WriteCashFlows writes one row per entry. categoryNames maps category ids to
// display names; unknown ids are written as is.
func WriteCashFlows(w io.Writer, format Format, flows []domain.CashFlow, categoryNames map[string]string) error {
	t := table{sheet: "Cash flows", header: cashFlowHeader}
	for _, cf := range flows {
		t.rows = append(t.rows, cashFlowRow(cf, categoryNames))
	}
	return write(w, format, t)
}

// WriteStatement writes the summary block, the category breakdown and the
// entries of a statement into a single table.
func WriteStatement(w io.Writer, format Format, st *domain.Statement, categoryNames map[string]string) error {
	t := table{sheet: "Statement", header: []string{"Section", "Item", "Value", "Count", "Percent"}}
	add := func(cells ...any) { t.rows = append(t.rows, cells) }

	add("Period", "From", st.From.Format(dateLayout))
	add("Period", "To", st.To.Format(dateLayout))
	if st.AccountID != "" {
		add("Period", "Account", st.AccountID)
	}
	add("Summary", "Opening balance", st.OpeningBalance)
	add("Summary", "Income", st.Totals.Income)
	add("Summary", "Expense", st.Totals.Expense)
	add("Summary", "Net", st.Totals.Net)
	add("Summary", "Closing balance", st.ClosingBalance)
	for _, ct := range st.IncomeByCategory {
		add("Income by category", ct.CategoryName, ct.Total, ct.Count, ct.Percent)
	}
	for _, ct := range st.ExpenseByCategory {
		add("Expense by category", ct.CategoryName, ct.Total, ct.Count, ct.Percent)
	}
	if c := st.Comparison; c != nil {
		add("Previous period", "From", c.From.Format(dateLayout))
		add("Previous period", "To", c.To.Format(dateLayout))
		add("Previous period", "Income", c.Totals.Income)
		add("Previous period", "Expense", c.Totals.Expense)
		add("Previous period", "Net", c.Totals.Net)
		add("Change", "Income", c.IncomeChange)
		add("Change", "Expense", c.ExpenseChange)
		add("Change", "Net", c.NetChange)
	}

	add()
	header := make([]any, len(cashFlowHeader))
	for i, h := range cashFlowHeader {
		header[i] = h
	}
	add(header...)
	for _, cf := range st.Entries {
		add(cashFlowRow(cf, categoryNames)...)
	}
	return write(w, format, t)
}

func write(w io.Writer, format Format, t table) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	default:
		return apperrors.NewValidationError("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, t table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, 0, len(t.header))
	for _, row := range t.rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, csvCell(cell))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case decimal.Decimal:
		return c.StringFixed(2)
	default:
		return fmt.Sprint(c)
	}
}

func writeXLSX(w io.Writer, t table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	amountID, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := f.SetSheetRow(t.sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(t.header), 1)
	if err := f.SetCellStyle(t.sheet, "A1", last, boldID); err != nil {
		return fmt.Errorf("style xlsx header: %w", err)
	}

	for i, row := range t.rows {
		rowNum := i + 2
		for j, cell := range row {
			name, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if d, ok := cell.(decimal.Decimal); ok {
				if err := f.SetCellFloat(t.sheet, name, d.InexactFloat64(), -1, 64); err != nil {
					return fmt.Errorf("write xlsx cell %s: %w", name, err)
				}
				if err := f.SetCellStyle(t.sheet, name, name, amountID); err != nil {
					return fmt.Errorf("style xlsx cell %s: %w", name, err)
				}
				continue
			}
			if err := f.SetCellValue(t.sheet, name, cell); err != nil {
				return fmt.Errorf("write xlsx cell %s: %w", name, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
