package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// ReportQuery is the query string of the report endpoints.
type ReportQuery struct {
	View   string `json:"view" validate:"required,oneof=realtime historical"`
	Date   string `json:"date" validate:"required_if=View realtime,omitempty,datetime=2006-01-02"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=csv xlsx json text"`
}

// Selection converts a validated query into a view selection.
func (q ReportQuery) Selection() (domain.ViewSelection, error) {
	if domain.ViewType(q.View) == domain.ViewHistorical {
		return domain.AllTime(), nil
	}
	day, err := time.Parse(domain.DateLayout, q.Date)
	if err != nil {
		return domain.ViewSelection{}, err
	}
	return domain.SingleDay(day), nil
}

// Validator checks request input against struct tags
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

// ParseReportQuery reads and validates the report query parameters. View
// aliases such as "real-time" or "all" are normalized first.
func (v *Validator) ParseReportQuery(r *http.Request) (ReportQuery, error) {
	values := r.URL.Query()
	q := ReportQuery{
		View:   strings.TrimSpace(values.Get("view")),
		Date:   strings.TrimSpace(values.Get("date")),
		Format: strings.ToLower(strings.TrimSpace(values.Get("format"))),
	}
	if vt, err := domain.ParseViewType(q.View); err == nil {
		q.View = string(vt)
	}

	if err := v.ValidateStruct(q); err != nil {
		v.logger.DebugContext(r.Context(), "report query rejected",
			slog.String("query", r.URL.RawQuery),
			slog.String("error", err.Error()))
		return ReportQuery{}, err
	}
	return q, nil
}

// ValidateStruct validates a struct and returns validation errors
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apperrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		parts := strings.Fields(param)
		if len(parts) == 2 {
			return fmt.Sprintf("%s is required when %s is %s", field, strings.ToLower(parts[0]), parts[1])
		}
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
