package types

import (
	"fmt"
	"math"
	"strconv"
)

// ToInt64 converts a scanned database value to int64.
// Supports the signed and unsigned integer kinds, integral floats, and the
// []byte / string forms drivers return for DECIMAL and text-protocol columns.
func ToInt64(v interface{}) (int64, error) {
	switch i := v.(type) {
	case int64:
		return i, nil
	case int:
		return int64(i), nil
	case int32:
		return int64(i), nil
	case int16:
		return int64(i), nil
	case int8:
		return int64(i), nil
	case uint:
		return uintToInt64(uint64(i))
	case uint64:
		return uintToInt64(i)
	case uint32:
		return int64(i), nil
	case uint16:
		return int64(i), nil
	case uint8:
		return int64(i), nil
	case float64:
		return floatToInt64(i)
	case float32:
		return floatToInt64(float64(i))
	case []byte:
		return parseInt64(string(i))
	case string:
		return parseInt64(i)
	case nil:
		return 0, fmt.Errorf("value is NULL")
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("value %d overflows int64", u)
	}
	return int64(u), nil
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("value %v is not an int64", f)
	}
	return int64(f), nil
}

func parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, nil
	}
	// Unsigned enum backing types may still fit after parsing as uint64.
	u, uerr := strconv.ParseUint(s, 10, 64)
	if uerr != nil {
		return 0, fmt.Errorf("value %q is not an integer: %w", s, err)
	}
	return uintToInt64(u)
}
