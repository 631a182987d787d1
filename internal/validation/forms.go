package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PostForm is the create-post form
type PostForm struct {
	Title    string `form:"title" validate:"max=200"`
	Content  string `form:"content" validate:"max=500"`
	Category string `form:"category" validate:"max=64"`
	Body     string `form:"body" validate:"required,max=50000"`
}

// CommentForm is the create-comment form
type CommentForm struct {
	Text string `form:"text" validate:"required,max=2000"`
}

// ProfileForm is the edit-profile form
type ProfileForm struct {
	Name     string `form:"name" validate:"max=64"`
	Location string `form:"location" validate:"max=64"`
	AboutMe  string `form:"about_me" validate:"max=2000"`
}

// messages overrides the generic text for a field/tag pair
var messages = map[string]string{
	"PostForm.Body.required":    "Post cannot be empty.",
	"CommentForm.Text.required": "Comment cannot be empty.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report form field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateForm checks a form struct and returns the first failure as a
// user-facing message
func ValidateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	if msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return errors.New(msg)
	}
	return errors.New(formatFieldError(fe))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	field = strings.ToUpper(field[:1]) + field[1:]

	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	default:
		return field + " is invalid."
	}
}
