package validation

import (
	"fmt"
	"regexp"

	"github.com/iudanet/crmsync/internal/models"
)

// FieldNamePattern определяет допустимый формат имени поля записи
// Буквы, цифры, нижнее подчеркивание и дефис, до 64 символов
var FieldNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// MaxFields максимальное количество полей в одной записи
const MaxFields = 100

// ValidateEntity проверяет, что тип сущности известен
func ValidateEntity(entity models.EntityType) error {
	if !entity.Valid() {
		return fmt.Errorf("unknown entity type: %q", entity)
	}
	return nil
}

// ValidateRecordID проверяет идентификатор записи
func ValidateRecordID(id string) error {
	if id == "" {
		return fmt.Errorf("record id cannot be empty")
	}
	if len(id) > 128 {
		return fmt.Errorf("record id must not exceed 128 characters")
	}
	return nil
}

// ValidateFields проверяет attribute bag записи
func ValidateFields(fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("record must have at least one field")
	}
	if len(fields) > MaxFields {
		return fmt.Errorf("record must not exceed %d fields", MaxFields)
	}
	for name := range fields {
		if !FieldNamePattern.MatchString(name) {
			return fmt.Errorf("invalid field name: %q", name)
		}
	}
	return nil
}
