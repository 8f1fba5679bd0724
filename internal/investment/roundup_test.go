package investment

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUp(t *testing.T) {
	cases := []struct {
		amount float64
		limit  int
		want   float64
	}{
		{1712, 50, 38},
		{1245, 50, 5},
		{1750, 50, 0},
		{99, 100, 1},
		{245.5, 10, 4.5},
		{200.5, 50, 49.5},
		{0.01, 10, 9.99},
		{1712, 15, 13},
		{0, 50, 0},
		{-1712, 50, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundUp(tc.amount, tc.limit), "amount %v limit %d", tc.amount, tc.limit)
	}
}

func TestRoundUpMatchesCeiling(t *testing.T) {
	for _, limit := range []int{10, 15, 50, 100} {
		for cents := 1; cents <= 50000; cents += 37 {
			amount := float64(cents) / 100
			want := math.Round((math.Ceil(amount/float64(limit))*float64(limit)-amount)*100) / 100

			got := RoundUp(amount, limit)

			require.InDelta(t, want, got, 1e-9, "amount %v limit %d", amount, limit)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, float64(limit))
		}

		for k := 1; k <= 20; k++ {
			assert.Zero(t, RoundUp(float64(k*limit), limit))
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount Amount
		want   float64
		err    error
	}{
		{"number", NumberAmount(-1712), -1712, nil},
		{"rouble sign", TextAmount("-1712 ₽"), -1712, nil},
		{"surrounding spaces", TextAmount(" -245.50 "), -245.5, nil},
		{"currency code", TextAmount("500 RUB"), 500, nil},
		{"thousands separator", TextAmount("-1 712,00"), 0, ErrUnparsableAmount},
		{"spaced thousands", TextAmount("-1 712.00 ₽"), -1712, nil},
		{"words", TextAmount("не число"), 0, ErrUnparsableAmount},
		{"empty", TextAmount(""), 0, ErrUnparsableAmount},
		{"nan text", TextAmount("NaN"), 0, ErrUnparsableAmount},
		{"infinite number", NumberAmount(math.Inf(-1)), 0, ErrUnparsableAmount},
		{"absent", Amount{}, 0, ErrAmountAbsent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.amount)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTotalInvestment(t *testing.T) {
	c, _ := newTestCalculator(t)

	t.Run("positive amounts never count", func(t *testing.T) {
		records := []Record{
			{Date: "2024-01-01", Amount: NumberAmount(1_000_001)},
			{Date: "2024-01-02", Amount: TextAmount("7 RUB")},
		}
		assert.Zero(t, c.TotalInvestment(records, 10))
	})

	t.Run("rounds the sum to cents", func(t *testing.T) {
		records := []Record{
			{Date: "2024-01-01", Amount: NumberAmount(-0.1)},
			{Date: "2024-01-02", Amount: NumberAmount(-0.2)},
		}
		assert.Equal(t, 19.7, c.TotalInvestment(records, 10))
	})

	t.Run("non-positive limit", func(t *testing.T) {
		assert.Zero(t, c.TotalInvestment(ExampleRecords(), 0))
		assert.Zero(t, c.TotalInvestment(ExampleRecords(), -50))
	})

	t.Run("unparsable amounts are skipped", func(t *testing.T) {
		records := []Record{
			{Date: "2024-01-15", Amount: NumberAmount(-1712)},
			{Date: "2024-01-16", Amount: Amount{kind: amountInvalid, text: "true"}},
		}
		assert.Equal(t, 38.0, c.TotalInvestment(records, 50))
	})

	t.Run("all skipped", func(t *testing.T) {
		records := []Record{{Date: "2024-01-01"}, {Date: "2024-01-02", Amount: TextAmount("abc")}}
		assert.Zero(t, c.TotalInvestment(records, 50))
	})
}

func TestRecordJSON(t *testing.T) {
	var records []Record
	raw := `[
		{"date": "2024-01-15", "amount": -1712},
		{"date": "2024-01-16", "amount": "-245.50 ₽"},
		{"date": "2024-01-17", "amount": null},
		{"date": "2024-01-18"}
	]`

	require.NoError(t, json.Unmarshal([]byte(raw), &records))
	require.Len(t, records, 4)

	assert.Equal(t, NumberAmount(-1712), records[0].Amount)
	assert.Equal(t, TextAmount("-245.50 ₽"), records[1].Amount)
	assert.False(t, records[2].Amount.IsPresent())
	assert.False(t, records[3].Amount.IsPresent())

	var odd []Record
	require.NoError(t, json.Unmarshal([]byte(`[
		{"date": "2024-01-01", "amount": true},
		{"date": "2024-01-02", "amount": {"value": 5}},
		{"date": 20240103, "amount": -10},
		{"date": "2024-01-04", "amount": 1e999}
	]`), &odd))
	require.Len(t, odd, 4)

	assert.True(t, odd[0].Amount.IsPresent())
	_, err := ParseAmount(odd[0].Amount)
	assert.ErrorIs(t, err, ErrUnparsableAmount)
	_, err = ParseAmount(odd[1].Amount)
	assert.ErrorIs(t, err, ErrUnparsableAmount)
	assert.Empty(t, odd[2].Date)
	assert.Equal(t, NumberAmount(-10), odd[2].Amount)
	_, err = ParseAmount(odd[3].Amount)
	assert.ErrorIs(t, err, ErrUnparsableAmount)

	oddRaw, err := json.Marshal(odd[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"date": "2024-01-02", "amount": {"value": 5}}`, string(oddRaw))

	out, err := json.Marshal(records[:3])
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"date": "2024-01-15", "amount": -1712},
		{"date": "2024-01-16", "amount": "-245.50 ₽"},
		{"date": "2024-01-17", "amount": null}
	]`, string(out))
}
