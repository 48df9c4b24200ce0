package commons

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "100", want: "100.00"},
		{raw: " 0.01 ", want: "0.01"},
		{raw: "1.230", want: "1.23"},
		{raw: "1e2", want: "100.00"},
		{raw: "0", wantErr: true},
		{raw: "0.00", wantErr: true},
		{raw: "-5.00", wantErr: true},
		{raw: "0.001", wantErr: true},
		{raw: "ten", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "999999999999.99", want: "999999999999.99"},
		{raw: "1000000000000", wantErr: true},
		{raw: "1e9999", wantErr: true},
		{raw: "1e-2000000000", wantErr: true},
		{raw: "1e15", wantErr: true},
		{raw: "000000000000000000000000000000001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			amount, err := ParseAmount(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatAmount(amount))
		})
	}
}

func TestParseBalance(t *testing.T) {
	balance, err := ParseBalance("")
	require.NoError(t, err)
	assert.Equal(t, "0.00", FormatAmount(balance))

	balance, err = ParseBalance("0")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = ParseBalance("-0.01")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseBalance("1000000000000.00")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseAmountRejectsExtremeExponentsQuickly(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		_, err := ParseAmount("1e-2000000000")
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrInvalidAmount)
	case <-time.After(time.Second):
		t.Fatal("ParseAmount did not return for a tiny exponent")
	}
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	business := errors.Wrap(ErrInsufficientFunds, "withdraw")
	assert.Equal(t, business, Classify(business))
	assert.True(t, IsValidationError(business))

	cause := errors.New("connection refused")
	classified := Classify(cause)
	assert.ErrorIs(t, classified, ErrTransient)
	assert.ErrorIs(t, classified, cause)
	assert.False(t, IsValidationError(classified))
	assert.Equal(t, classified, Transient(classified))

	assert.ErrorIs(t, Validationf("username is required"), ErrValidation)
}
