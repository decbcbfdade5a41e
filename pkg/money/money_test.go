package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		kopecks int64
	}{
		{"1000", 100000},
		{"1000.5", 100050},
		{"1000.50", 100050},
		{"1000,50", 100050},
		{"0.01", 1},
		{" 250 ", 25000},
		{"-15.30", -1530},
		{".5", 50},
	}

	for _, tt := range cases {
		got, err := Parse(tt.in)
		require.NoErrorf(t, err, "Parse(%q)", tt.in)
		assert.Equalf(t, tt.kopecks, got.Kopecks(), "Parse(%q)", tt.in)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "10.999", "10.5.5", "10..5", ".", "10.", "10.-5", "10.+5", "10.5x"} {
		_, err := Parse(in)
		assert.Errorf(t, err, "Parse(%q) must fail", in)
	}

	_, err := Parse("10.999")
	assert.ErrorIs(t, err, ErrTooManyDecimals)

	_, err = Parse("abc")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	// Знак в дробной части - не число, а искаженная сумма
	for _, in := range []string{"10.-5", "10.+5", "10."} {
		_, err := Parse(in)
		assert.ErrorIsf(t, err, ErrInvalidFormat, "Parse(%q)", in)
	}
}

// Сумма, записанная строкой, должна читаться обратно без потерь
func TestStringRoundTrip(t *testing.T) {
	for _, in := range []string{"1000.50", "0.01", "999999.99", "1", "15.30"} {
		parsed, err := Parse(in)
		require.NoError(t, err)

		again, err := Parse(parsed.String())
		require.NoError(t, err)
		assert.Equalf(t, parsed, again, "round trip %q", in)
	}

	parsed, err := Parse("1000.50")
	require.NoError(t, err)
	assert.Equal(t, "1000.50", parsed.String())
}

func TestString(t *testing.T) {
	assert.Equal(t, "1000", FromRubles(1000).String())
	assert.Equal(t, "1000.50", FromKopecks(100050).String())
	assert.Equal(t, "0.05", FromKopecks(5).String())
	assert.Equal(t, "-12.30", FromKopecks(-1230).String())
	assert.Equal(t, "0", Money(0).String())
}

func TestArithmetic(t *testing.T) {
	a := FromRubles(100)
	b := FromKopecks(50)

	assert.Equal(t, FromKopecks(10050), a.Add(b))
	assert.Equal(t, FromKopecks(9950), a.Sub(b))
	assert.True(t, a.IsPositive())
	assert.True(t, Money(0).IsZero())
	assert.False(t, FromKopecks(-1).IsPositive())
}

func TestDiv(t *testing.T) {
	assert.Equal(t, FromKopecks(3333), FromRubles(100).Div(3))
	assert.Equal(t, FromRubles(50), FromRubles(100).Div(2))
	assert.Equal(t, Money(0), FromRubles(100).Div(0))
	// Половина копейки округляется от нуля
	assert.Equal(t, FromKopecks(1), FromKopecks(1).Div(2))
}

func TestScanValue(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan(int64(100050)))
	assert.Equal(t, FromKopecks(100050), m)

	require.NoError(t, m.Scan([]byte("250")))
	assert.Equal(t, FromKopecks(250), m)

	require.NoError(t, m.Scan(nil))
	assert.Equal(t, Money(0), m)

	assert.Error(t, m.Scan("not supported"))

	v, err := FromKopecks(100050).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(100050), v)
}
