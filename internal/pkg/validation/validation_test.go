package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Region string `validate:"required,region"`
	Email  string `validate:"required,email"`
	Qty    int    `validate:"gte=1"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Region: "Ñuble", Email: "a@b.cl", Qty: 1}))

	err := Struct(sample{Region: "Nuble", Email: "nope", Qty: 0})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "sample.Region failed 'region'")
	assert.Contains(t, err.Error(), "sample.Email failed 'email'")
	assert.Contains(t, err.Error(), "sample.Qty failed 'gte'")
}
