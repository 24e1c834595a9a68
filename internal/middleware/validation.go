package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dentalbright/booking-api/internal/model"
)

// RegisterValidators installs the custom binding validators. Field names in
// validation errors use the json tag so messages match the wire format.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	if err := v.RegisterValidation("servicetype", validServiceType); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

func validServiceType(fl validator.FieldLevel) bool {
	return model.ServiceType(fl.Field().String()).Valid()
}
