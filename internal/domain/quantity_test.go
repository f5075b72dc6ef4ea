package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func usd(t *testing.T, amount string) Quantity {
	t.Helper()
	q, err := ParseQuantityAmount(amount, "USD", 2)
	require.NoError(t, err)
	return q
}

func TestNewQuantity_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		unitCode       string
		fractionDigits int32
		wantErr        error
	}{
		{name: "valid", unitCode: "USD", fractionDigits: 2},
		{name: "digits in code", unitCode: "USDC2", fractionDigits: 6},
		{name: "lowercase code", unitCode: "usd", fractionDigits: 2, wantErr: ErrInvalidUnitCode},
		{name: "empty code", unitCode: "", fractionDigits: 2, wantErr: ErrInvalidUnitCode},
		{name: "negative digits", unitCode: "USD", fractionDigits: -1, wantErr: ErrInvalidUnitCode},
		{name: "too many digits", unitCode: "USD", fractionDigits: 9, wantErr: ErrInvalidUnitCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuantity(decimal.NewFromInt(1), tt.unitCode, tt.fractionDigits)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseQuantityAmount_RejectsNonNumbers(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "1,5", "12..3"} {
		_, err := ParseQuantityAmount(in, "USD", 2)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}

	_, err := NewQuantityFromFloat(math.NaN(), "USD", 2)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewQuantityFromFloat(math.Inf(1), "USD", 2)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestQuantity_InternalPrecision(t *testing.T) {
	t.Parallel()

	q := usd(t, "1.123456785")
	assert.Equal(t, "1.12345678", q.Amount().String())

	q = usd(t, "1.123456775")
	assert.Equal(t, "1.12345678", q.Amount().String())
}

func TestQuantity_Arithmetic(t *testing.T) {
	t.Parallel()

	a := usd(t, "10")
	b := usd(t, "2.5")

	sum, err := a.Plus(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.RequireFromString("12.5")))

	diff, err := b.Minus(a)
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.True(t, diff.Amount().Equal(decimal.RequireFromString("-7.5")))

	product := b.MultipliedBy(decimal.NewFromInt(4))
	assert.True(t, product.Amount().Equal(decimal.NewFromInt(10)))

	third, err := a.DividedBy(decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "3.33333333", third.Amount().String())

	_, err = a.DividedBy(decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	ratio, err := a.Ratio(b)
	require.NoError(t, err)
	assert.True(t, ratio.Equal(decimal.NewFromInt(4)))

	_, err = a.Ratio(mustZero(t, "USD", 2))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	assert.True(t, a.Neg().IsNegative())
	assert.False(t, a.IsZero())
	assert.True(t, a.IsPositive())
}

func mustZero(t *testing.T, code string, digits int32) Quantity {
	t.Helper()
	q, err := ZeroQuantity(code, digits)
	require.NoError(t, err)
	return q
}

func TestQuantity_MismatchNamesBothOperands(t *testing.T) {
	t.Parallel()

	dollars := usd(t, "1")
	euros, err := ParseQuantityAmount("1", "EUR", 2)
	require.NoError(t, err)
	wideDollars, err := ParseQuantityAmount("1", "USD", 4)
	require.NoError(t, err)

	for _, other := range []Quantity{euros, wideDollars} {
		_, err := dollars.Plus(other)
		require.ErrorIs(t, err, ErrCurrencyMismatch)
		assert.Contains(t, err.Error(), "USD(2)")
		assert.Contains(t, err.Error(), other.UnitCode())

		_, err = dollars.Minus(other)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)

		_, err = dollars.Equals(other)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)

		_, err = dollars.IsLessThan(other)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)

		_, err = dollars.IsGreaterThan(other)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	}
}

func TestQuantity_Comparisons(t *testing.T) {
	t.Parallel()

	small := usd(t, "1.00")
	big := usd(t, "2")

	less, err := small.IsLessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := small.IsGreaterThan(big)
	require.NoError(t, err)
	assert.False(t, greater)

	equal, err := small.Equals(usd(t, "1"))
	require.NoError(t, err)
	assert.True(t, equal)

	c, err := big.Compare(small)
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestQuantity_SerializeRoundTrip(t *testing.T) {
	t.Parallel()

	values := []string{"0", "100", "0.01", "-42.5", "123456789.12345678", "0.00000001"}
	for _, v := range values {
		q := usd(t, v)
		s := q.Serialize()

		back, err := DeserializeQuantity(s, q.FractionDigits())
		require.NoError(t, err, s)

		equal, err := back.Equals(q)
		require.NoError(t, err)
		assert.True(t, equal, "round trip of %s", s)
	}

	assert.Equal(t, "USD:100.50000000", usd(t, "100.5").Serialize())
}

func TestDeserializeQuantity_Errors(t *testing.T) {
	t.Parallel()

	_, err := DeserializeQuantity("100.00", 2)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = DeserializeQuantity("usd:100.00", 2)
	assert.ErrorIs(t, err, ErrInvalidUnitCode)

	_, err = DeserializeQuantity("USD:ten", 2)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestQuantity_Format(t *testing.T) {
	t.Parallel()

	jpy, err := ParseQuantityAmount("1500", "JPY", 0)
	require.NoError(t, err)
	eur, err := ParseQuantityAmount("1234.5", "EUR", 2)
	require.NoError(t, err)
	points, err := ParseQuantityAmount("12", "POINTS", 0)
	require.NoError(t, err)

	tests := []struct {
		name string
		q    Quantity
		opts FormatOptions
		want string
	}{
		{name: "grouped with symbol", q: usd(t, "1234567.891"), opts: FormatOptions{Locale: language.English, Symbol: "$"}, want: "$1,234,567.89"},
		{name: "half to even down", q: usd(t, "2.345"), opts: FormatOptions{Symbol: "$"}, want: "$2.34"},
		{name: "half to even up", q: usd(t, "2.355"), opts: FormatOptions{Symbol: "$"}, want: "$2.36"},
		{name: "negative", q: usd(t, "-5"), opts: FormatOptions{Symbol: "$"}, want: "-$5.00"},
		{name: "no fraction digits", q: jpy, opts: FormatOptions{Symbol: "¥"}, want: "¥1,500"},
		{name: "code suffix", q: points, opts: FormatOptions{}, want: "12 POINTS"},
		{name: "german grouping", q: eur, opts: FormatOptions{Locale: language.German}, want: "1.234,50 EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Format(tt.opts))
		})
	}
}

func TestQuantity_String(t *testing.T) {
	t.Parallel()

	if got := usd(t, "103").String(); got != "$103.00" {
		t.Errorf("expected $103.00, got %s", got)
	}
}

func TestQuantity_DivisionRoundsHalfEvenOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount  string
		divisor string
		want    string
	}{
		{amount: "0.00000003", divisor: "2.00001", want: "0.00000001"},
		{amount: "0.00000005", divisor: "2", want: "0.00000002"},
		{amount: "0.00000015", divisor: "2", want: "0.00000008"},
		{amount: "-0.00000015", divisor: "2", want: "-0.00000008"},
		{amount: "0.00000015", divisor: "-2", want: "-0.00000008"},
		{amount: "20", divisor: "3", want: "6.66666667"},
		{amount: "-20", divisor: "3", want: "-6.66666667"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+"/"+tt.divisor, func(t *testing.T) {
			q, err := usd(t, tt.amount).DividedBy(decimal.RequireFromString(tt.divisor))
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Amount().String())
		})
	}

	t.Run("ratio", func(t *testing.T) {
		ratio, err := usd(t, "0.00000015").Ratio(usd(t, "10"))
		require.NoError(t, err)
		assert.Equal(t, "0.00000002", ratio.String())

		ratio, err = usd(t, "2").Ratio(usd(t, "3"))
		require.NoError(t, err)
		assert.Equal(t, "0.66666667", ratio.String())
	})
}
