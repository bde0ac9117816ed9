package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Money
		wantErr  bool
	}{
		{"WholeAmount", "12", Money(1200), false},
		{"TwoFractionalDigits", "12.34", Money(1234), false},
		{"OneFractionalDigitPadded", "12.5", Money(1250), false},
		{"TrailingDot", "12.", Money(1200), false},
		{"LeadingDot", ".50", Money(50), false},
		{"Zero", "0", Money(0), false},
		{"ZeroWithFraction", "0.00", Money(0), false},
		{"SurroundingWhitespace", " 7.25 ", Money(725), false},
		{"ThreeFractionalDigits", "12.555", 0, true},
		{"Negative", "-5.00", 0, true},
		{"Empty", "", 0, true},
		{"Blank", "   ", 0, true},
		{"NotANumber", "abc", 0, true},
		{"MixedDigits", "12a.50", 0, true},
		{"TwoDots", "1.2.3", 0, true},
		{"Comma", "1,50", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				var parseErr *ParseError
				assert.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestArithmeticIsExact(t *testing.T) {
	a, err := Parse("0.10")
	require.NoError(t, err)
	b, err := Parse("0.20")
	require.NoError(t, err)

	// 0.10 + 0.20 must be exactly 0.30, the classic binary float failure.
	assert.Equal(t, Money(30), a.Add(b))
	assert.Equal(t, "0.30", a.Add(b).String())
}

func TestSubPreservesSign(t *testing.T) {
	total, err := Parse("150.00")
	require.NoError(t, err)
	tendered, err := Parse("100.00")
	require.NoError(t, err)

	change := tendered.Sub(total)
	assert.Equal(t, Money(-5000), change)
	assert.True(t, change.IsNegative())
	assert.Equal(t, "-50.00", change.String())
	assert.Equal(t, Money(5000), change.Abs())
}

func TestString(t *testing.T) {
	testCases := []struct {
		amount   Money
		expected string
	}{
		{Money(0), "0.00"},
		{Money(5), "0.05"},
		{Money(50), "0.50"},
		{Money(1250), "12.50"},
		{Money(-1), "-0.01"},
		{Money(-23750), "-237.50"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.amount.String())
	}
}
