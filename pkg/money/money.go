package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money денежная сумма в копейках (минорных единицах).
// Хранение в int64 исключает накопление ошибок двоичной арифметики:
// "1000.50" всегда читается обратно как ровно 1000.50.
type Money int64

var (
	// ErrInvalidFormat возвращается при некорректном формате суммы
	ErrInvalidFormat = errors.New("money: invalid format")

	// ErrTooManyDecimals возвращается, когда в сумме больше двух знаков после запятой
	ErrTooManyDecimals = errors.New("money: more than two decimal places")
)

// FromKopecks создает сумму из количества копеек.
func FromKopecks(v int64) Money {
	return Money(v)
}

// FromRubles создает сумму из целого количества рублей.
func FromRubles(v int64) Money {
	return Money(v * 100)
}

// Parse разбирает строку вида "1000", "1000.5" или "1000.50".
// Допускается запятая в качестве десятичного разделителя.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidFormat)
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
		// После разделителя допустимы только цифры: ParseInt принимает
		// знак и съел бы "10.-5" как корректную сумму
		if fracPart == "" || strings.IndexFunc(fracPart, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
	}

	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrTooManyDecimals, s)
	}

	rub, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	var kop int64
	if fracPart != "" {
		kop, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		if len(fracPart) == 1 {
			kop *= 10
		}
	}

	total := rub*100 + kop
	if neg {
		total = -total
	}
	return Money(total), nil
}

// Kopecks возвращает сумму в копейках.
func (m Money) Kopecks() int64 {
	return int64(m)
}

// String форматирует сумму: целые рубли без дробной части,
// иначе ровно два знака после точки.
func (m Money) String() string {
	v := int64(m)
	neg := v < 0
	if neg {
		v = -v
	}
	rub := v / 100
	kop := v % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(rub, 10))
	if kop != 0 {
		b.WriteByte('.')
		if kop < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(kop, 10))
	}
	return b.String()
}

// Add возвращает сумму двух значений.
func (m Money) Add(o Money) Money {
	return m + o
}

// Sub возвращает разность двух значений.
func (m Money) Sub(o Money) Money {
	return m - o
}

// Div делит сумму на n с округлением до копейки (банковское округление
// не используется, округляем половину от нуля). n == 0 дает 0.
func (m Money) Div(n int64) Money {
	if n == 0 {
		return 0
	}
	v := int64(m)
	q := v / n
	r := v % n
	if r != 0 && abs(r)*2 >= abs(n) {
		if (v < 0) != (n < 0) {
			q--
		} else {
			q++
		}
	}
	return Money(q)
}

// IsPositive сообщает, что сумма строго больше нуля.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsZero сообщает, что сумма равна нулю.
func (m Money) IsZero() bool {
	return m == 0
}

// Value реализует driver.Valuer: в БД сумма хранится копейками.
func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

// Scan реализует sql.Scanner.
func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*m = Money(v)
		return nil
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: scan %q", ErrInvalidFormat, string(v))
		}
		*m = Money(parsed)
		return nil
	case nil:
		*m = 0
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidFormat, src)
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
