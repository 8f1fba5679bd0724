package investment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type amountKind int

const (
	amountAbsent amountKind = iota
	amountNumber
	amountText
	amountInvalid
)

// Amount is an operation amount as it arrived from the caller: absent, a
// number, free-form text such as "-1 712 ₽", or a value of some other JSON
// type that can never be parsed. The zero value is absent.
type Amount struct {
	kind   amountKind
	number float64
	text   string
}

// NumberAmount wraps a numeric amount.
func NumberAmount(v float64) Amount {
	return Amount{kind: amountNumber, number: v}
}

// TextAmount wraps a textual amount that still has to be parsed.
func TextAmount(s string) Amount {
	return Amount{kind: amountText, text: s}
}

// IsPresent reports whether the amount field was supplied at all.
func (a Amount) IsPresent() bool {
	return a.kind != amountAbsent
}

func (a Amount) String() string {
	switch a.kind {
	case amountNumber:
		return fmt.Sprintf("%v", a.number)
	case amountText, amountInvalid:
		return a.text
	default:
		return "<absent>"
	}
}

// MarshalJSON writes numbers as numbers, text as strings and absent as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case amountNumber:
		return json.Marshal(a.number)
	case amountText:
		return json.Marshal(a.text)
	case amountInvalid:
		return []byte(a.text), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON value. Numbers and strings keep their
// value; booleans, objects, arrays and out of range numbers are kept as raw
// JSON and fail to parse later.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text amount: %w", err)
		}
		*a = TextAmount(s)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*a = Amount{kind: amountInvalid, text: string(data)}
		return nil
	}
	*a = NumberAmount(v)
	return nil
}

// Record is one transaction as seen by the round-up calculator. An empty
// Date means the date field was missing.
type Record struct {
	Date   string `json:"date"`
	Amount Amount `json:"amount"`
}

// UnmarshalJSON treats a date that is not a JSON string as missing.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date   json.RawMessage `json:"date"`
		Amount Amount          `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	*r = Record{Amount: raw.Amount}
	if len(raw.Date) > 0 && raw.Date[0] == '"' {
		if err := json.Unmarshal(raw.Date, &r.Date); err != nil {
			return fmt.Errorf("decode record date: %w", err)
		}
	}
	return nil
}
