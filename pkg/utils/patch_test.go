package utils

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestPatchString(t *testing.T) {
	dst := "старое"

	// Поле не пришло — значение не трогаем.
	assert.False(t, PatchString(&dst, null.String{}))
	assert.Equal(t, "старое", dst)

	// Пришло то же самое — изменений нет.
	assert.False(t, PatchString(&dst, null.StringFrom("старое")))

	assert.True(t, PatchString(&dst, null.StringFrom("новое")))
	assert.Equal(t, "новое", dst)
}

func TestPatchFloat64(t *testing.T) {
	dst := 500.0

	assert.False(t, PatchFloat64(&dst, null.Float64{}))
	assert.False(t, PatchFloat64(&dst, null.Float64From(500)))
	assert.True(t, PatchFloat64(&dst, null.Float64From(750)))
	assert.Equal(t, 750.0, dst)
}

func TestPatchStringPtr(t *testing.T) {
	var dst *string

	// Явный null в запросе обнуляет, но пустое над пустым — не изменение.
	assert.False(t, PatchStringPtr(&dst, null.StringFrom("")))
	assert.Nil(t, dst)

	assert.True(t, PatchStringPtr(&dst, null.StringFrom("/uploads/a.png")))
	assert.NotNil(t, dst)
	assert.Equal(t, "/uploads/a.png", *dst)

	assert.False(t, PatchStringPtr(&dst, null.StringFrom("/uploads/a.png")))

	assert.True(t, PatchStringPtr(&dst, null.StringFrom("")))
	assert.Nil(t, dst)
}
