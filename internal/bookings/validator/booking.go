package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vinbook/pkg/logger"
	"vinbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

// RequiredFieldsMessage is the exact wording shown to producers when a work
// order is missing required details. Client applications match on this string.
const RequiredFieldsMessage = "Please fill out all required fields for each wine, including contact and location details."

// EntryMode selects the validation policy for booking creation. Producer
// submissions must be complete; provider-entered manual bookings only need a
// service, a date and a client label, since providers often capture phone
// bookings with partial details.
type EntryMode int

const (
	EntryModeProducer EntryMode = iota
	EntryModeManual
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *BookingValidator) ValidateCreate(booking *model.Booking, mode EntryMode) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !booking.Status.Valid() {
		return ValidationErrors{
			ValidationError{
				Field:   "Status",
				Message: fmt.Sprintf("unknown status %q", booking.Status),
			},
		}
	}

	// One booking targets one service. Mixed-service requests are split by
	// the caller before they reach here.
	service := booking.Service()
	for _, w := range booking.WorkOrders {
		if w.Service != service {
			return ValidationErrors{
				ValidationError{
					Field:   "WorkOrders",
					Message: "all work orders in a booking must target the same service",
				},
			}
		}
	}

	if mode == EntryModeProducer {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if booking.Date.UTC().Before(today) {
			return ValidationErrors{
				ValidationError{
					Field:   "Date",
					Message: "date cannot be in the past",
				},
			}
		}

		for _, w := range booking.WorkOrders {
			if !w.Complete() {
				return ValidationErrors{
					ValidationError{
						Field:   "WorkOrders",
						Message: RequiredFieldsMessage,
					},
				}
			}
		}
	}

	return nil
}

func (v *BookingValidator) ValidateEdit(edit *model.BookingEdit) error {
	if err := v.validate.Struct(edit); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if edit.WorkOrders != nil {
		if len(edit.WorkOrders) == 0 {
			return ValidationErrors{
				ValidationError{
					Field:   "WorkOrders",
					Message: "a booking must keep at least one work order",
				},
			}
		}
		service := edit.WorkOrders[0].Service
		for _, w := range edit.WorkOrders {
			if w.Service != service {
				return ValidationErrors{
					ValidationError{
						Field:   "WorkOrders",
						Message: "all work orders in a booking must target the same service",
					},
				}
			}
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
