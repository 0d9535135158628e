package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	loginPattern      = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	secretPattern     = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	personNamePattern = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ ]+$`)
)

// Init configures the global validator used by Gin's binding.
//   - Uses JSON tag names in errors.
//   - Registers the account field rules: login, secret, personname.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs the tag name func and custom rules on v. Init calls it
// for Gin's engine; tests may call it on a fresh validator.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("login", matches(loginPattern))
	_ = v.RegisterValidation("secret", matches(secretPattern))
	_ = v.RegisterValidation("personname", matches(personNamePattern))
	v.RegisterAlias("gender", "oneof=0 1 2")
	v.RegisterAlias("isodate", "datetime=2006-01-02")
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"

	// ===== ACCOUNT FIELDS =====
	case "login":
		return "only latin letters and digits are allowed"
	case "secret":
		return "only latin letters and digits are allowed"
	case "personname":
		return "only latin and cyrillic letters and spaces are allowed"
	case "gender":
		return "must be one of: 0 (male), 1 (female), 2 (unknown)"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"

	// ===== SIZE/LENGTH =====
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param

	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "datetime":
		return "must match datetime format: " + param

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
