package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Status
	}{
		{name: "empty", text: "", want: StatusMissing},
		{name: "international", text: "Букет на Ленина 5, получатель +375291234567", want: StatusOK},
		{name: "international with separators", text: "тел. +375 (29) 123-45-67", want: StatusOK},
		{name: "local mts", text: "звонить 8 029 123 45 67", want: StatusOK},
		{name: "local a1", text: "80441234567", want: StatusOK},
		{name: "telegram handle", text: "связь через @recipient", want: StatusOK},
		{name: "unknown operator code", text: "80171234567", want: StatusInvalid},
		{name: "foreign number", text: "+79161234567", want: StatusInvalid},
		{name: "short international", text: "+37529123", want: StatusInvalid},
		{name: "house number only", text: "ул. Ленина 5, кв. 12, подъезд 2", want: StatusMissing},
		{name: "six digits", text: "код домофона 123456", want: StatusMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.text))
		})
	}
}

func TestValidateLongDigitRunWithoutHandleIsInvalid(t *testing.T) {
	for _, text := range []string{"1234567", "заказ 99999999999", "+1 202 555 0147"} {
		assert.Equal(t, StatusInvalid, Validate(text), text)
	}
}
