package investment

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Currency is the currency of every calculated amount.
const Currency = "RUB"

// CalculationDateLayout is the layout of Result.CalculationDate.
const CalculationDateLayout = "2006-01-02 15:04:05"

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var (
	ErrInvalidMonthFormat = errors.New("invalid month format")
	ErrInvalidLimit       = errors.New("invalid limit")
)

// Result is the outcome of a round-up calculation. An error result carries
// only Error and Status.
type Result struct {
	Month           string
	Limit           int
	TotalInvestment float64
	Currency        string
	Status          Status
	CalculationDate string
	Error           string

	err error
}

type successPayload struct {
	Month           string  `json:"month"`
	Limit           int     `json:"limit"`
	TotalInvestment float64 `json:"total_investment"`
	Currency        string  `json:"currency"`
	Status          Status  `json:"status"`
	CalculationDate string  `json:"calculation_date"`
}

type errorPayload struct {
	Error  string `json:"error"`
	Status Status `json:"status"`
}

// OK reports whether the calculation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Err returns the validation failure behind an error result, or nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	if r.err != nil {
		return fmt.Errorf("%w: %s", r.err, r.Error)
	}
	return errors.New(r.Error)
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		return json.Marshal(errorPayload{Error: r.Error, Status: r.Status})
	}
	return json.Marshal(successPayload{
		Month:           r.Month,
		Limit:           r.Limit,
		TotalInvestment: r.TotalInvestment,
		Currency:        r.Currency,
		Status:          r.Status,
		CalculationDate: r.CalculationDate,
	})
}

// JSON renders the result as indented, human readable JSON.
func (r Result) JSON() (string, error) {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode investment result: %w", err)
	}
	return string(raw), nil
}

// ErrorResult builds an error result carrying only the message.
func (c *Calculator) ErrorResult(message string) Result {
	return Result{Status: StatusError, Error: message}
}

// SuccessResult builds a success result stamped with the calculation time.
func (c *Calculator) SuccessResult(month string, total float64, limit int) Result {
	res := Result{
		Month:           month,
		Limit:           limit,
		TotalInvestment: total,
		Currency:        Currency,
		Status:          StatusSuccess,
		CalculationDate: c.now().Format(CalculationDateLayout),
	}

	c.sink("prepare_response").WithField("result", res).Debug("response prepared")
	return res
}
