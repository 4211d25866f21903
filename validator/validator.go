package validator

import (
	"reflect"
	"sync"

	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Felts are validated through their hex representation, so a non-zero felt
// is any felt whose representation is not "0x0".
func validateFeltNonZero(fl validator.FieldLevel) bool {
	return fl.Field().String() != felt.Zero.String()
}

func validateProtocolVersion(fl validator.FieldLevel) bool {
	_, err := api.VersionedConstantsFor(fl.Field().String())
	return err == nil
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("felt_nonzero", validateFeltNonZero); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		if err := v.RegisterValidation("protocol_version", validateProtocolVersion); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		// Register these types to use their string representation for validation
		// purposes
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			switch f := field.Interface().(type) {
			case felt.Felt:
				return f.String()
			case *felt.Felt:
				return f.String()
			}
			panic("not a felt")
		}, felt.Felt{}, &felt.Felt{})
	})
	return v
}
