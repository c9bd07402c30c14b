package utils

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Помощники PATCH-семантики: поле применяется только если оно реально
// пришло в запросе (null.* хранит флаг Valid). Возвращают true,
// если значение изменилось.

func PatchString(dst *string, v null.String) bool {
	if !v.Valid || *dst == v.String {
		return false
	}
	*dst = v.String
	return true
}

func PatchFloat64(dst *float64, v null.Float64) bool {
	if !v.Valid || *dst == v.Float64 {
		return false
	}
	*dst = v.Float64
	return true
}

func PatchUint64(dst *uint64, v null.Uint64) bool {
	if !v.Valid || *dst == v.Uint64 {
		return false
	}
	*dst = v.Uint64
	return true
}

func PatchTime(dst *time.Time, v null.Time) bool {
	if !v.Valid || dst.Equal(v.Time) {
		return false
	}
	*dst = v.Time
	return true
}

// PatchStringPtr — для nullable-колонок: явный null в запросе
// обнуляет значение.
func PatchStringPtr(dst **string, v null.String) bool {
	if !v.Valid {
		return false
	}
	if v.String == "" {
		if *dst == nil {
			return false
		}
		*dst = nil
		return true
	}
	if *dst != nil && **dst == v.String {
		return false
	}
	s := v.String
	*dst = &s
	return true
}
