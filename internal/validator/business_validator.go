package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Slot duration bounds. Mentors book in blocks between 15 minutes and a
// full working day.
const (
	MinSlotDuration = 15 * time.Minute
	MaxSlotDuration = 8 * time.Hour
)

// ValidateSlotCreate validates slot interval business rules on top of the
// struct tags.
func (v *Validator) ValidateSlotCreate(req *SlotCreateRequest) ValidationErrors {
	var errors ValidationErrors

	if ve := ToValidationErrors(v.validate.Struct(req)); len(ve) > 0 {
		errors = append(errors, ve...)
	}

	if !req.EndAt.After(req.StartAt) {
		errors = append(errors, ValidationError{
			Field:   "end_at",
			Message: "must be after start_at",
			Value:   req.EndAt,
			Rule:    "business_logic",
		})
		return errors
	}

	duration := req.EndAt.Sub(req.StartAt)
	if duration < MinSlotDuration {
		errors = append(errors, ValidationError{
			Field:   "end_at",
			Message: fmt.Sprintf("slot must be at least %s long", MinSlotDuration),
			Value:   duration.String(),
			Rule:    "business_logic",
		})
	}
	if duration > MaxSlotDuration {
		errors = append(errors, ValidationError{
			Field:   "end_at",
			Message: fmt.Sprintf("slot must be at most %s long", MaxSlotDuration),
			Value:   duration.String(),
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateFeedback validates that a feedback submission carries at least
// one of rating or feedback text.
func (v *Validator) ValidateFeedback(req *SessionFeedbackRequest) ValidationErrors {
	var errors ValidationErrors

	if ve := ToValidationErrors(v.validate.Struct(req)); len(ve) > 0 {
		errors = append(errors, ve...)
	}

	if req.Rating == nil && req.Feedback == nil {
		errors = append(errors, ValidationError{
			Field:   "rating",
			Message: "at least one of rating or feedback is required",
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers the custom rule validators used by DTO tags.
func (v *Validator) registerBusinessRules() {
	v.validate.RegisterValidation("skill_tag", func(fl validator.FieldLevel) bool {
		tag := strings.TrimSpace(fl.Field().String())
		return len(tag) >= 1 && len(tag) <= 50
	})

	v.validate.RegisterValidation("rating_range", func(fl validator.FieldLevel) bool {
		rating := fl.Field().Int()
		return rating >= 1 && rating <= 5
	})

	v.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() == reflect.Ptr && field.IsNil() {
			return true // Optional field
		}

		var value time.Time
		if field.Kind() == reflect.Ptr {
			value = field.Elem().Interface().(time.Time)
		} else {
			value = field.Interface().(time.Time)
		}

		return value.After(time.Now())
	})
}
