package customvalidator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("asset_type", isAssetType); err != nil {
		return err
	}
	if err := v.RegisterValidation("equipment_status", isEquipmentStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("serial_number", isSerialNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("work_date", isWorkDate); err != nil {
		return err
	}
	return nil
}

func isAssetType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "hours", "kilometers", "dav":
		return true
	}
	return false
}

func isEquipmentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "maintenance", "decommissioned":
		return true
	}
	return false
}

// Серийный номер: латиница/цифры/дефис, 3..64 символа.
func isSerialNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-]{2,63}$`)
	return re.MatchString(fl.Field().String())
}

// Дата наработки в формате YYYY-MM-DD.
func isWorkDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
