// Пакет maintenance — расчёт срока обслуживания и остатка ресурса.
// Чистые функции без состояния и без I/O; безопасны для конкурентных вызовов.
package maintenance

import (
	"math"
	"time"

	apperrors "maintenance-system/pkg/errors"
)

// Timestamp — нативная форма метки времени документного хранилища
// (секунды + наносекунды). Принимается наравне с ISO-строкой,
// чтобы данные, выгруженные из старого хранилища, считались одинаково.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanoseconds"`
}

func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// DueInfo — вычисленный срок обслуживания.
type DueInfo struct {
	Date          string    `json:"date"` // YYYY-MM-DD
	MaintenanceAt time.Time `json:"maintenance_at"`
	DaysLeft      int       `json:"days_left"` // отрицательное значение — просрочено
}

// RemainingUnits — остаток ресурса до обслуживания в единицах учёта
// (часы / километры / DAV — подпись единицы выбирает вызывающий слой).
type RemainingUnits struct {
	HoursLeft float64 `json:"hours_left"`
	Due       bool    `json:"due"`
	Overdue   bool    `json:"overdue"`
}

// ParseCreatedAt приводит дату создания к time.Time. Принимает строку
// RFC3339 / "2006-01-02", Timestamp, *Timestamp и time.Time.
// Никогда не паникует: непригодное значение — InvalidInputError.
func ParseCreatedAt(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return time.Time{}, apperrors.NewInvalidInputError("created_at", "пустая метка времени")
		}
		return *val, nil
	case Timestamp:
		return val.Time(), nil
	case *Timestamp:
		if val == nil {
			return time.Time{}, apperrors.NewInvalidInputError("created_at", "пустая метка времени")
		}
		return val.Time(), nil
	case string:
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02", val); err == nil {
			return t, nil
		}
		return time.Time{}, apperrors.NewInvalidInputError("created_at", "не удалось распарсить дату %q", val)
	default:
		return time.Time{}, apperrors.NewInvalidInputError("created_at", "неподдерживаемый тип метки времени %T", v)
	}
}

// CalculateMaintenanceDateAt считает дату обслуживания и остаток дней
// на момент now. Бюджет моточасов эвристически переводится в дни
// делением на 24. Отрицательный DaysLeft — обслуживание просрочено.
func CalculateMaintenanceDateAt(createdAt interface{}, operatingHoursBudget float64, now time.Time) (DueInfo, error) {
	created, err := ParseCreatedAt(createdAt)
	if err != nil {
		return DueInfo{}, err
	}

	if operatingHoursBudget < 0 || math.IsNaN(operatingHoursBudget) || math.IsInf(operatingHoursBudget, 0) {
		return DueInfo{}, apperrors.NewInvalidInputError("operating_hours", "бюджет моточасов должен быть неотрицательным числом, получено %v", operatingHoursBudget)
	}

	intervalDays := operatingHoursBudget / 24
	maintenanceAt := created.Add(time.Duration(intervalDays * 24 * float64(time.Hour)))
	daysLeft := int(math.Floor(maintenanceAt.Sub(now).Hours() / 24))

	return DueInfo{
		Date:          maintenanceAt.Format("2006-01-02"),
		MaintenanceAt: maintenanceAt,
		DaysLeft:      daysLeft,
	}, nil
}

// CalculateMaintenanceDate — то же самое относительно текущего момента.
func CalculateMaintenanceDate(createdAt interface{}, operatingHoursBudget float64) (DueInfo, error) {
	return CalculateMaintenanceDateAt(createdAt, operatingHoursBudget, time.Now())
}

// CalculateRemainingUnits считает остаток ресурса: operatingHours здесь —
// порог в единицах учёта, а не коэффициент перевода в дни. Вычитание
// точное, без округления. Тотальная функция: ошибок не возвращает.
func CalculateRemainingUnits(operatingHours, usageTotal float64) RemainingUnits {
	left := operatingHours - usageTotal
	return RemainingUnits{
		HoursLeft: left,
		Due:       left <= 0,
		Overdue:   left < 0,
	}
}
