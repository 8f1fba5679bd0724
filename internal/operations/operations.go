// Package operations loads the bank operations report from an xlsx workbook.
package operations

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/bank-analytics/internal/investment"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Column headers of the operations report.
const (
	ColOperationDate   = "Дата операции"
	ColPaymentDate     = "Дата платежа"
	ColCardNumber      = "Номер карты"
	ColStatus          = "Статус"
	ColAmount          = "Сумма операции"
	ColCurrency        = "Валюта операции"
	ColPaymentAmount   = "Сумма платежа"
	ColPaymentCurrency = "Валюта платежа"
	ColCashback        = "Кэшбэк"
	ColCategory        = "Категория"
	ColMCC             = "MCC"
	ColDescription     = "Описание"
	ColBonuses         = "Бонусы (включая кэшбэк)"
	ColInvestRounding  = "Округление на инвесткопилку"
	ColRoundedAmount   = "Сумма операции с округлением"
)

// RecordDateLayout is the date text handed to the round-up calculator.
const RecordDateLayout = "2006-01-02 15:04:05"

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrMissingColumn = errors.New("required column missing")
)

var requiredColumns = []string{ColOperationDate, ColAmount}

// Loader reads operations from workbooks.
type Loader struct {
	log logrus.FieldLogger
}

func NewLoader(log logrus.FieldLogger) *Loader {
	return &Loader{log: logging.Component(log, "operations")}
}

// Load reads sheet from the workbook at path.
func (l *Loader) Load(path, sheet string) ([]models.Operation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	ops, err := l.read(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.log.WithField("file", path).Infof("loaded %d operations", len(ops))
	return ops, nil
}

// LoadReader reads sheet from a workbook stream.
func (l *Loader) LoadReader(r io.Reader, sheet string) ([]models.Operation, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return l.read(f, sheet)
}

func (l *Loader) read(f *excelize.File, sheet string) ([]models.Operation, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheet)
	}

	header := generateHeaderMap(rows[0])
	for _, col := range requiredColumns {
		if _, ok := header[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	ops := make([]models.Operation, 0, len(rows)-1)
	for i, record := range rows[1:] {
		if isBlank(record) {
			continue
		}
		row := sheetRow{record: record, header: header}
		ops = append(ops, l.operation(f, row, i+2))
	}
	return ops, nil
}

func (l *Loader) operation(f *excelize.File, row sheetRow, line int) models.Operation {
	op := models.Operation{
		RawOperationDate: row.get(ColOperationDate),
		PaymentDate:      row.get(ColPaymentDate),
		CardNumber:       row.get(ColCardNumber),
		Status:           row.get(ColStatus),
		RawAmount:        row.get(ColAmount),
		Currency:         row.get(ColCurrency),
		PaymentAmount:    parseNumber(row.get(ColPaymentAmount)),
		PaymentCurrency:  row.get(ColPaymentCurrency),
		Cashback:         parseNumber(row.get(ColCashback)),
		Category:         row.get(ColCategory),
		MCC:              parseNumber(row.get(ColMCC)),
		Description:      row.get(ColDescription),
		Bonuses:          parseNumber(row.get(ColBonuses)),
		InvestRounding:   parseNumber(row.get(ColInvestRounding)),
	}

	date, err := parseOperationDate(f, op.RawOperationDate)
	if err != nil {
		l.log.WithField("row", line).WithField("date", op.RawOperationDate).Warn("could not parse operation date")
	} else {
		op.OperationDate = date
	}

	if amount := parseNumber(op.RawAmount); amount != nil {
		op.Amount = *amount
		op.AmountParsed = true
	} else if op.RawAmount != "" {
		l.log.WithField("row", line).WithField("amount", op.RawAmount).Warn("could not parse operation amount")
	}

	if rounded := parseNumber(row.get(ColRoundedAmount)); rounded != nil {
		op.RoundedAmount = *rounded
	} else if op.Amount < 0 {
		op.RoundedAmount = -op.Amount
	} else {
		op.RoundedAmount = op.Amount
	}

	return op
}

// Records converts operations into round-up records. Parsed dates are written
// as ISO text so that month prefixes match; unparsed ones keep the cell text.
func Records(ops []models.Operation) []investment.Record {
	records := make([]investment.Record, 0, len(ops))
	for _, op := range ops {
		var r investment.Record
		if op.HasDate() {
			r.Date = op.OperationDate.Format(RecordDateLayout)
		} else {
			r.Date = op.RawOperationDate
		}
		switch {
		case op.AmountParsed:
			r.Amount = investment.NumberAmount(op.Amount)
		case op.RawAmount != "":
			r.Amount = investment.TextAmount(op.RawAmount)
		}
		records = append(records, r)
	}
	return records
}

type sheetRow struct {
	record []string
	// header name in lower case to column index
	header map[string]int
}

func (r sheetRow) get(column string) string {
	i, ok := r.header[strings.ToLower(column)]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func generateHeaderMap(record []string) map[string]int {
	m := make(map[string]int, len(record))
	for i, name := range record {
		m[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return m
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var operationDateLayouts = []string{
	models.OperationDateLayout,
	"02.01.2006",
	RecordDateLayout,
	"2006-01-02",
}

// parseOperationDate accepts day-first report dates, ISO dates and Excel
// serial dates.
func parseOperationDate(f *excelize.File, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range operationDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, err
	}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	return excelize.ExcelDateToTime(serial, date1904)
}

func parseNumber(raw string) *float64 {
	clean := strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), ",", ".")
	if clean == "" {
		return nil
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}
	return &v
}
