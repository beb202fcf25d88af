package entity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"1000", 100000, false},
		{"800.5", 80050, false},
		{"0.01", 1, false},
		{".5", 50, false},
		{"-200", -20000, false},
		{" 12.30 ", 1230, false},
		{"1.234", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1.-5", 0, true},
		{".", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "800.00", Cents(80000).String())
	assert.Equal(t, "0.01", Cents(1).String())
	assert.Equal(t, "-2.05", Cents(-205).String())
}

func TestMoney_JSON(t *testing.T) {
	var payload struct {
		A Money  `json:"a"`
		B Money  `json:"b"`
		C *Money `json:"c"`
	}

	err := json.Unmarshal([]byte(`{"a": 800.5, "b": "0.01", "c": null}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, Cents(80050), payload.A)
	assert.Equal(t, Cents(1), payload.B)
	assert.Nil(t, payload.C)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 800.50, "b": 0.01, "c": null}`, string(out))
}

func TestParseMoney_OutOfRange(t *testing.T) {
	largest, err := ParseMoney("92233720368547757.99")
	require.NoError(t, err)
	assert.Equal(t, Money(9223372036854775799), largest)

	for _, in := range []string{
		"92233720368547758",
		"92233720368547758.08",
		"200000000000000000",
		"-200000000000000000",
		"99999999999999999999999",
	} {
		_, err := ParseMoney(in)
		assert.ErrorIs(t, err, ErrMoneyOverflow, in)
	}

	var payload struct {
		Amount Money `json:"approved_amount"`
	}
	err = json.Unmarshal([]byte(`{"approved_amount": 200000000000000000}`), &payload)
	assert.ErrorIs(t, err, ErrMoneyOverflow)
}

func TestMoney_Times(t *testing.T) {
	got, err := MustParseMoney("300").Times(2)
	require.NoError(t, err)
	assert.Equal(t, MustParseMoney("600"), got)

	got, err = Cents(0).Times(math.MaxInt32)
	require.NoError(t, err)
	assert.Equal(t, Money(0), got)

	_, err = Cents(math.MaxInt64 / 10).Times(20)
	assert.ErrorIs(t, err, ErrMoneyOverflow)

	_, err = Cents(math.MinInt64).Times(-1)
	assert.ErrorIs(t, err, ErrMoneyOverflow)
}

func TestMoney_StringAtInt64Bounds(t *testing.T) {
	assert.Equal(t, "92233720368547758.07", Money(math.MaxInt64).String())
	assert.Equal(t, "-92233720368547758.08", Money(math.MinInt64).String())

	out, err := json.Marshal(Money(math.MinInt64))
	require.NoError(t, err)
	assert.True(t, json.Valid(out))
}
