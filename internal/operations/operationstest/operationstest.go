// Package operationstest writes bank report workbooks for tests.
package operationstest

import (
	"path/filepath"
	"testing"

	"github.com/Dan9191/bank-analytics/internal/operations"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet is the sheet name used by the bank export.
const Sheet = "Отчет по операциям"

// Header is the full column header row of the bank export.
var Header = []interface{}{
	operations.ColOperationDate, operations.ColPaymentDate, operations.ColCardNumber,
	operations.ColStatus, operations.ColAmount, operations.ColCurrency,
	operations.ColPaymentAmount, operations.ColPaymentCurrency, operations.ColCashback,
	operations.ColCategory, operations.ColMCC, operations.ColDescription,
	operations.ColBonuses, operations.ColInvestRounding, operations.ColRoundedAmount,
}

// Row builds a data row in Header order for a settled rouble operation.
func Row(date, card string, amount float64, category, description string) []interface{} {
	rounded := amount
	if rounded < 0 {
		rounded = -rounded
	}
	return []interface{}{
		date, date[:10], card,
		"OK", amount, "RUB",
		amount, "RUB", "",
		category, "", description,
		"", "", rounded,
	}
}

// WriteWorkbook saves rows, preceded by Header, to a new workbook in a test
// temp dir and returns its path.
func WriteWorkbook(t *testing.T, rows ...[]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", Sheet))

	all := append([][]interface{}{Header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(Sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "operations.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
