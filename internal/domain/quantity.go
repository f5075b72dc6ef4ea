package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// InternalPrecision is the number of fractional digits every Quantity keeps,
// independent of the unit's display precision.
const InternalPrecision int32 = 8

var unitCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// maxGroupable bounds the integer part that is grouped through the locale printer.
var maxGroupable = decimal.NewFromInt(1 << 62)

// Quantity is an immutable arbitrary-precision amount of a unit (usually a currency).
type Quantity struct {
	amount         decimal.Decimal
	unitCode       string
	fractionDigits int32
}

// NewQuantity creates a Quantity, rounding the amount to InternalPrecision.
func NewQuantity(amount decimal.Decimal, unitCode string, fractionDigits int32) (Quantity, error) {
	if err := ValidateUnitCode(unitCode); err != nil {
		return Quantity{}, err
	}

	if fractionDigits < 0 || fractionDigits > InternalPrecision {
		return Quantity{}, fmt.Errorf("%w: fraction digits must be between 0 and %d, got %d",
			ErrInvalidUnitCode, InternalPrecision, fractionDigits)
	}

	return Quantity{
		amount:         amount.RoundBank(InternalPrecision),
		unitCode:       unitCode,
		fractionDigits: fractionDigits,
	}, nil
}

// ParseQuantityAmount parses a decimal string into a Quantity.
func ParseQuantityAmount(amount, unitCode string, fractionDigits int32) (Quantity, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q is not a finite number", ErrInvalidAmount, amount)
	}

	return NewQuantity(d, unitCode, fractionDigits)
}

// NewQuantityFromFloat converts a float amount; NaN and infinities are rejected.
func NewQuantityFromFloat(amount float64, unitCode string, fractionDigits int32) (Quantity, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Quantity{}, fmt.Errorf("%w: %v is not a finite number", ErrInvalidAmount, amount)
	}

	return NewQuantity(decimal.NewFromFloat(amount), unitCode, fractionDigits)
}

// ZeroQuantity returns a zero amount of the given unit.
func ZeroQuantity(unitCode string, fractionDigits int32) (Quantity, error) {
	return NewQuantity(decimal.Zero, unitCode, fractionDigits)
}

// ValidateUnitCode checks that a unit code is an uppercase identifier.
func ValidateUnitCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: unit code cannot be empty", ErrInvalidUnitCode)
	}

	if !unitCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidUnitCode, code)
	}

	return nil
}

// Amount returns the amount at internal precision.
func (q Quantity) Amount() decimal.Decimal { return q.amount }

// UnitCode returns the unit code, e.g. "USD".
func (q Quantity) UnitCode() string { return q.unitCode }

// FractionDigits returns the display precision of the unit.
func (q Quantity) FractionDigits() int32 { return q.fractionDigits }

// SameUnit reports whether both quantities share unit code and fraction digits.
func (q Quantity) SameUnit(other Quantity) bool {
	return q.unitCode == other.unitCode && q.fractionDigits == other.fractionDigits
}

func (q Quantity) checkUnit(other Quantity) error {
	if !q.SameUnit(other) {
		return fmt.Errorf("%w: %s(%d) and %s(%d)",
			ErrCurrencyMismatch, q.unitCode, q.fractionDigits, other.unitCode, other.fractionDigits)
	}

	return nil
}

func (q Quantity) with(amount decimal.Decimal) Quantity {
	return Quantity{
		amount:         amount.RoundBank(InternalPrecision),
		unitCode:       q.unitCode,
		fractionDigits: q.fractionDigits,
	}
}

// Plus returns q + other.
func (q Quantity) Plus(other Quantity) (Quantity, error) {
	if err := q.checkUnit(other); err != nil {
		return Quantity{}, err
	}

	return q.with(q.amount.Add(other.amount)), nil
}

// Minus returns q - other.
func (q Quantity) Minus(other Quantity) (Quantity, error) {
	if err := q.checkUnit(other); err != nil {
		return Quantity{}, err
	}

	return q.with(q.amount.Sub(other.amount)), nil
}

// MultipliedBy returns q * factor.
func (q Quantity) MultipliedBy(factor decimal.Decimal) Quantity {
	return q.with(q.amount.Mul(factor))
}

// DividedBy returns q / divisor, rounded half-to-even at internal precision.
func (q Quantity) DividedBy(divisor decimal.Decimal) (Quantity, error) {
	if divisor.IsZero() {
		return Quantity{}, ErrDivisionByZero
	}

	return q.with(divBank(q.amount, divisor, InternalPrecision)), nil
}

// Ratio returns q / other as a plain number.
func (q Quantity) Ratio(other Quantity) (decimal.Decimal, error) {
	if err := q.checkUnit(other); err != nil {
		return decimal.Zero, err
	}

	if other.amount.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}

	return divBank(q.amount, other.amount, InternalPrecision), nil
}

// divBank returns n / d rounded half to even at places, from the exact
// remainder so the quotient is rounded once.
func divBank(n, d decimal.Decimal, places int32) decimal.Decimal {
	quo, rem := n.QuoRem(d, places)
	if rem.IsZero() {
		return quo
	}

	ulp := decimal.New(1, -places)
	cmp := rem.Abs().Mul(decimal.NewFromInt(2)).Cmp(d.Abs().Mul(ulp))
	odd := !quo.Shift(places).Mod(decimal.NewFromInt(2)).IsZero()
	if cmp < 0 || (cmp == 0 && !odd) {
		return quo
	}

	if n.Sign()*d.Sign() < 0 {
		return quo.Sub(ulp)
	}
	return quo.Add(ulp)
}

// Neg returns -q.
func (q Quantity) Neg() Quantity {
	return q.with(q.amount.Neg())
}

// Compare returns -1, 0 or 1.
func (q Quantity) Compare(other Quantity) (int, error) {
	if err := q.checkUnit(other); err != nil {
		return 0, err
	}

	return q.amount.Cmp(other.amount), nil
}

// Equals reports whether both quantities hold the same amount.
func (q Quantity) Equals(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return c == 0 && err == nil, err
}

// IsLessThan reports whether q < other.
func (q Quantity) IsLessThan(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return c < 0 && err == nil, err
}

// IsGreaterThan reports whether q > other.
func (q Quantity) IsGreaterThan(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return c > 0 && err == nil, err
}

// IsZero reports whether the amount is zero.
func (q Quantity) IsZero() bool { return q.amount.IsZero() }

// IsPositive reports whether the amount is greater than zero.
func (q Quantity) IsPositive() bool { return q.amount.IsPositive() }

// IsNegative reports whether the amount is less than zero.
func (q Quantity) IsNegative() bool { return q.amount.IsNegative() }

// Serialize returns the wire form "{unitCode}:{amount fixed to 8 decimals}".
func (q Quantity) Serialize() string {
	return q.unitCode + ":" + q.amount.StringFixed(InternalPrecision)
}

// DeserializeQuantity parses the output of Serialize.
func DeserializeQuantity(s string, fractionDigits int32) (Quantity, error) {
	code, amount, ok := strings.Cut(s, ":")
	if !ok {
		return Quantity{}, fmt.Errorf("%w: %q is missing the unit separator", ErrInvalidAmount, s)
	}

	return ParseQuantityAmount(amount, code, fractionDigits)
}

// FormatOptions controls Quantity.Format.
type FormatOptions struct {
	Locale language.Tag
	// Symbol is printed before the amount, e.g. "$". When empty the unit code follows the amount.
	Symbol string
}

// Format renders the amount rounded half-to-even to the unit's fraction digits,
// grouped according to the locale.
func (q Quantity) Format(opts FormatOptions) string {
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	rounded := q.amount.RoundBank(q.fractionDigits)
	p := message.NewPrinter(locale)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	whole := rounded.Truncate(0)
	digits := whole.String()
	if whole.LessThan(maxGroupable) {
		digits = p.Sprint(number.Decimal(whole.IntPart()))
	}

	if q.fractionDigits > 0 {
		frac := rounded.Sub(whole).StringFixedBank(q.fractionDigits)
		digits += decimalSeparator(p) + strings.TrimPrefix(frac, "0.")
	}

	if opts.Symbol != "" {
		return sign + opts.Symbol + digits
	}

	return sign + digits + " " + q.unitCode
}

// String formats the quantity in English, using the currency symbol when known.
func (q Quantity) String() string {
	return q.Format(FormatOptions{Locale: language.English, Symbol: KnownCurrencySymbol(q.unitCode)})
}

func decimalSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	if len(s) < 3 {
		return "."
	}

	return strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5")
}

var knownSymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"NZD": "NZ$",
}

// KnownCurrencySymbol returns the symbol for well-known ISO 4217 codes, or "".
func KnownCurrencySymbol(code string) string {
	return knownSymbols[code]
}
