package investment

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// monthLayout accepts "2024-03" as well as "2024-3".
const monthLayout = "2006-1"

// ValidateMonth reports whether month is a YYYY-MM calendar month.
func (c *Calculator) ValidateMonth(month string) bool {
	log := c.sink("validate_month")

	if _, err := time.Parse(monthLayout, month); err != nil {
		log.WithField("month", month).Error("invalid month format")
		return false
	}

	log.WithField("month", month).Debug("month passed validation")
	return true
}

// ValidateLimit reports whether limit is a positive integer and returns it as
// an int. Limits that are not a multiple of 10 are accepted with a warning.
func (c *Calculator) ValidateLimit(limit interface{}) (int, bool) {
	log := c.sink("validate_limit")

	value, ok := integerValue(limit)
	if !ok {
		log.WithField("type", typeName(limit)).Error("limit must be an integer")
		return 0, false
	}

	if value <= 0 {
		log.WithField("limit", value).Error("limit must be positive")
		return 0, false
	}

	if value%10 != 0 {
		log.WithField("limit", value).Warn("limit is not a multiple of 10, prefer 10, 50 or 100")
	}

	log.WithField("limit", value).Debug("limit passed validation")
	return value, true
}

// integerValue converts Go integer types and integral json.Number values.
// Floats, strings and everything else are rejected even when they hold a
// whole number.
func integerValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return fitInt(n)
	case uint:
		return fitUint(uint64(n))
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return fitUint(uint64(n))
	case uint64:
		return fitUint(n)
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return fitInt(i)
	default:
		return 0, false
	}
}

func fitInt(n int64) (int, bool) {
	if n > math.MaxInt || n < math.MinInt {
		return 0, false
	}
	return int(n), true
}

func fitUint(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
