package handlers

import (
	"github.com/facturo/ledger_backend/internal/jurisdiction"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators hooks domain validations into Gin's binding
// validator so malformed requests are rejected before they reach a service.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// jurisdiction validates a supported jurisdiction template code.
	_ = v.RegisterValidation("jurisdiction", func(fl validator.FieldLevel) bool {
		_, err := jurisdiction.Get(fl.Field().String())
		return err == nil
	})
}
