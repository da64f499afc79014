package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/arnavshah/planner-api-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const clockTag = "hhmm"

var (
	registerOnce sync.Once
	translator   ut.Translator
)

// RegisterValidators installs the custom binding tags and the English error
// messages on gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, translator)

		// Use JSON tag names in validation errors instead of Go field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation(clockTag, clockValidation)
		_ = v.RegisterTranslation(clockTag, translator,
			func(ut.Translator) error { return nil },
			func(_ ut.Translator, fe validator.FieldError) string {
				return "must be a time of day as HH:MM"
			})
	})
}

func clockValidation(fl validator.FieldLevel) bool {
	_, err := scheduler.ParseClock(fl.Field().String())
	return err == nil
}

// fieldErrors maps each failed field, by its JSON path, to a readable message
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		msg := fe.Error()
		if translator != nil {
			msg = fe.Translate(translator)
		}
		out[path] = msg
	}
	return out
}

// bindError answers a request whose body could not be bound
func bindError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if fields := fieldErrors(err); fields != nil {
		body["error"] = "Invalid request"
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}
