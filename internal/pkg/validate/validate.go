// Package validate provides the shared struct validator.
package validate

import (
	"net"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Validate returns the process-wide validator instance. Besides the
// built-in tags it understands host_port, which accepts anything
// net.SplitHostPort does with a non-empty port, bracketed IPv6 included.
func Validate() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("host_port", hostPort); err != nil {
			panic(err)
		}
	})
	return v
}

func hostPort(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	return err == nil && port != ""
}
