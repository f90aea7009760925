// Package forms wires a schema-validated input to a create or update
// mutation. Schema validation runs first and a failure never reaches
// the network; server field rejections are mapped back onto the form.
package forms

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
)

var (
	// ErrInvalid is returned when client-side schema validation fails.
	ErrInvalid = errors.New("form validation failed")
	// ErrSubmitInFlight rejects a submit while one is already pending.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

var schema = newSchemaValidator()

// newSchemaValidator reports field errors under the json name, matching
// the names the server uses in its own rejections.
func newSchemaValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Form drives one create or edit dialog. The zero value is not usable;
// call New.
type Form[In any] struct {
	mu          sync.Mutex
	fieldErrors map[string]string
	rootError   string
	submitting  bool
	populated   bool
}

// New returns an empty form.
func New[In any]() *Form[In] {
	return &Form[In]{fieldErrors: map[string]string{}}
}

// Submit validates in and, only on a clean pass, runs the mutation.
// A schema failure records field errors and returns ErrInvalid without
// any network call. A *rest.ValidationError from the mutation maps each
// field's first message onto the form; any other error lands in the
// root error banner. On success the form resets.
func (f *Form[In]) Submit(ctx context.Context, in In, mutate func(context.Context, In) error) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.submitting = true
	f.fieldErrors = map[string]string{}
	f.rootError = ""
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	if err := schema.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			f.mu.Lock()
			for _, fe := range verrs {
				if _, seen := f.fieldErrors[fe.Field()]; !seen {
					f.fieldErrors[fe.Field()] = schemaMessage(fe)
				}
			}
			f.mu.Unlock()
			return ErrInvalid
		}
		return err
	}

	if err := mutate(ctx, in); err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if ve, ok := rest.AsValidation(err); ok {
			for field, msgs := range ve.Fields {
				if len(msgs) > 0 {
					f.fieldErrors[field] = msgs[0]
				}
			}
		} else {
			f.rootError = rest.UserMessage(err)
		}
		return err
	}

	f.Reset()
	return nil
}

// PopulateOnce runs apply the first time it is called after a Reset,
// then never again. Edit dialogs use it so defaults are set exactly
// once the detail record has loaded, never before.
func (f *Form[In]) PopulateOnce(apply func()) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.populated {
		return false
	}
	f.populated = true
	apply()
	return true
}

// Reset clears errors and the populated marker.
func (f *Form[In]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fieldErrors = map[string]string{}
	f.rootError = ""
	f.populated = false
}

// FieldError returns the message recorded for one field, if any.
func (f *Form[In]) FieldError(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrors[field]
}

// FieldErrors returns a copy of all recorded field errors.
func (f *Form[In]) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// RootError returns the form-level error banner text, if any.
func (f *Form[In]) RootError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rootError
}

// Submitting reports whether a mutation is in flight; the submit
// control stays disabled while it is.
func (f *Form[In]) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func schemaMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "This value is too long."
	case "min":
		return "This value is too short."
	case "oneof":
		return "Choose one of the allowed values."
	case "gt":
		return "This value must be greater than " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}
