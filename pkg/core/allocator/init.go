package allocator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/resident-scheduler/pkg/core/model"
)

// Inputs are the datasets consumed by one scheduling run
type Inputs struct {
	Residents           []model.Resident
	Rotations           []model.Rotation
	VacationPreferences []model.VacationPreference
	RotationPreferences []model.RotationPreference
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// fieldNames maps struct fields to the column names residents and rotations are entered with
var fieldNames = map[string]string{
	"Level":          "PGY",
	"TotalSubblocks": "Total Subblocks",
	"StartBlock":     "Start Block",
	"EndBlock":       "End Block",
	"Name":           "Rotation Name",
	"Duration":       "Duration",
	"TotalNeeded":    "Total Needed",
	"Difficulty":     "Difficulty",
	"Choices":        "Preferred Rotation",
}

// ValidateInputs checks every dataset before any pass runs, so a malformed input never
// leaves a half-applied schedule.
//
// Invalid inputs (errors returned):
//   - Blank resident names, level outside 1-5, block outside 1-13, negative counts
//   - Start block after end block
//   - Duplicate resident identities or rotation names
//   - A rotation named "Vacation"
//
// Preference records naming unknown residents, labels or rotations are not errors.
func ValidateInputs(input Inputs) error {
	seenResidents := make(map[model.ResidentID]int)
	for i, resident := range input.Residents {
		if err := validateIdentity(i, resident.ID); err != nil {
			return err
		}

		if err := validateStruct(model.DatasetResidents, i, resident); err != nil {
			return err
		}

		if resident.StartBlock != 0 && resident.EndBlock != 0 && resident.StartBlock > resident.EndBlock {
			return &model.ValidationError{
				Dataset: model.DatasetResidents,
				Row:     i + 1,
				Field:   "Start Block",
				Reason:  fmt.Sprintf("start block %d is after end block %d", resident.StartBlock, resident.EndBlock),
			}
		}

		if first, exists := seenResidents[resident.ID]; exists {
			return &model.ValidationError{
				Dataset: model.DatasetResidents,
				Row:     i + 1,
				Field:   "Last Name",
				Reason:  fmt.Sprintf("duplicate resident %s (first seen on row %d)", resident.ID, first+1),
			}
		}
		seenResidents[resident.ID] = i
	}

	seenRotations := make(map[string]int)
	for i, rotation := range input.Rotations {
		if err := validateStruct(model.DatasetRotations, i, rotation); err != nil {
			return err
		}

		if strings.EqualFold(rotation.Name, model.VacationLabel) {
			return &model.ValidationError{
				Dataset: model.DatasetRotations,
				Row:     i + 1,
				Field:   "Rotation Name",
				Reason:  fmt.Sprintf("%q is reserved for vacations", rotation.Name),
			}
		}

		if first, exists := seenRotations[rotation.Name]; exists {
			return &model.ValidationError{
				Dataset: model.DatasetRotations,
				Row:     i + 1,
				Field:   "Rotation Name",
				Reason:  fmt.Sprintf("duplicate rotation %q (first seen on row %d)", rotation.Name, first+1),
			}
		}
		seenRotations[rotation.Name] = i
	}

	for i, pref := range input.VacationPreferences {
		if err := validateStruct(model.DatasetVacationPreferences, i, pref); err != nil {
			return err
		}
	}

	for i, pref := range input.RotationPreferences {
		if err := validateStruct(model.DatasetRotationPreferences, i, pref); err != nil {
			return err
		}
	}

	return nil
}

func validateIdentity(idx int, id model.ResidentID) error {
	if strings.TrimSpace(id.LastName) == "" {
		return &model.ValidationError{Dataset: model.DatasetResidents, Row: idx + 1, Field: "Last Name", Reason: "is required"}
	}
	if strings.TrimSpace(id.FirstName) == "" {
		return &model.ValidationError{Dataset: model.DatasetResidents, Row: idx + 1, Field: "First Name", Reason: "is required"}
	}
	return nil
}

// validateStruct runs tag validation and converts the first failure to a ValidationError
func validateStruct(dataset string, idx int, value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate %s row %d: %w", dataset, idx+1, err)
	}

	fieldErr := fieldErrs[0]
	return &model.ValidationError{
		Dataset: dataset,
		Row:     idx + 1,
		Field:   columnName(fieldErr.StructField()),
		Reason:  describe(fieldErr),
	}
}

func columnName(structField string) string {
	// Array elements come through as e.g. "Required[1]"
	if base, index, ok := strings.Cut(structField, "["); ok {
		level := strings.TrimSuffix(index, "]")
		switch base {
		case "Required":
			return "PGY-" + levelFromIndex(level) + " Req"
		case "Optional":
			return "PGY-" + levelFromIndex(level) + " Opt"
		}
		return base
	}

	if name, ok := fieldNames[structField]; ok {
		return name
	}
	return structField
}

func levelFromIndex(index string) string {
	i, err := strconv.Atoi(index)
	if err != nil {
		return index
	}
	return strconv.Itoa(i + 1)
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s, got %v", fieldErr.Param(), fieldErr.Value())
	case "max":
		if fieldErr.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s entries", fieldErr.Param())
		}
		return fmt.Sprintf("must be at most %s, got %v", fieldErr.Param(), fieldErr.Value())
	default:
		return fmt.Sprintf("failed %q validation", fieldErr.Tag())
	}
}
