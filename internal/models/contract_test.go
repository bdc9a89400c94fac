package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContract(t *testing.T) {
	now := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	c := NewContract(now)

	assert.Equal(t, "2024", c.AnoLetivo)
	assert.Equal(t, "2024-03-05", c.DataAssinatura)
	assert.Equal(t, "10", c.DiaVencimento)
	assert.Equal(t, "2", c.PercentualMulta)
	assert.Equal(t, "1", c.PercentualJuros)
	assert.Empty(t, c.ID)
	assert.Empty(t, c.NomeEscola)

	// Each call must hand out an independent value.
	c.NomeEscola = "Escola Modelo"
	assert.Empty(t, NewContract(now).NomeEscola)
}

func TestParseAmount(t *testing.T) {
	for input, want := range map[string]float64{
		"450.5":   450.5,
		" 450.5 ": 450.5,
		"450,50":  450.5,
		"1200":    1200,
		"-10":     -10,
		"+3,25":   3.25,
		"0,5":     0.5,
		",5":      0.5,
		"12.":     12,
	} {
		got, err := ParseAmount(input)
		require.NoError(t, err, input)
		assert.InDelta(t, want, got, 1e-9, input)
	}

	for _, input := range []string{"", "abc", "12abc", "Inf", "-Inf", "NaN", "infinity", "0x1p4", "0x10", "1_000", "1e3", "1.234,50", "1,2,3", ".", "-"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, input)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	d, err = ParseDate("2024-02-01T10:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Day())

	_, err = ParseDate("01/02/2024")
	assert.Error(t, err)
}
