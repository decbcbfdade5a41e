// Package validation содержит чистые проверки пользовательского ввода.
// Каждый валидатор либо возвращает нормализованное значение, либо ошибку,
// обернутую в ErrValidation, с текстом причины для показа пользователю.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	"github.com/bmwdroch/detailing-bot/pkg/money"
)

var (
	phoneCleanRe = regexp.MustCompile(`[\s\-()]`)
	phoneRe      = regexp.MustCompile(`^(?:\+7|8)\d{10}$`)
	nameTokenRe  = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z\-]+$`)
	carInfoRe    = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z0-9\s\-\.]+$`)
	commentRe    = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z0-9\s\.,!?\-]+$`)
	categoryRe   = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z0-9\s\-]+$`)
)

// maxAmount потолок суммы произвольной транзакции
var maxAmount = money.FromKopecks(99_999_999_999)

// Phone проверяет номер телефона и нормализует его к виду +7XXXXXXXXXX.
// Принимает номера с пробелами, скобками и дефисами.
func Phone(raw string) (string, error) {
	phone := phoneCleanRe.ReplaceAllString(raw, "")

	if !phoneRe.MatchString(phone) {
		return "", fmt.Errorf("%w: Неверный формат номера. Используйте +7XXXXXXXXXX или 8XXXXXXXXXX", ErrValidation)
	}

	if strings.HasPrefix(phone, "8") {
		phone = "+7" + phone[1:]
	}

	return phone, nil
}

// Name проверяет ФИО клиента: минимум два слова, каждое от двух символов,
// только буквы и дефисы. Возвращает имя со схлопнутыми пробелами.
func Name(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")

	parts := strings.Fields(name)
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: Введите фамилию и имя", ErrValidation)
	}

	for _, part := range parts {
		if len([]rune(part)) < domain.MinNameTokenLength {
			return "", fmt.Errorf("%w: Слишком короткое слово: %s", ErrValidation, part)
		}
		if !nameTokenRe.MatchString(part) {
			return "", fmt.Errorf("%w: Недопустимые символы в слове: %s", ErrValidation, part)
		}
	}

	return name, nil
}

// CarInfo проверяет описание автомобиля (марка, модель, номер)
func CarInfo(raw string) (string, error) {
	carInfo := strings.TrimSpace(raw)

	length := len([]rune(carInfo))
	if length < domain.MinCarInfoLength {
		return "", fmt.Errorf("%w: Слишком короткое описание автомобиля", ErrValidation)
	}
	if length > domain.MaxCarInfoLength {
		return "", fmt.Errorf("%w: Слишком длинное описание автомобиля", ErrValidation)
	}
	if !carInfoRe.MatchString(carInfo) {
		return "", fmt.Errorf("%w: Недопустимые символы в описании автомобиля", ErrValidation)
	}

	return carInfo, nil
}

// Comment проверяет опциональный комментарий к записи.
// nil и пустая строка допустимы и возвращаются как nil.
func Comment(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}

	comment := strings.TrimSpace(*raw)
	if comment == "" {
		return nil, nil
	}

	if len([]rune(comment)) > domain.MaxCommentLength {
		return nil, fmt.Errorf("%w: Комментарий слишком длинный (максимум %d символов)", ErrValidation, domain.MaxCommentLength)
	}
	if !commentRe.MatchString(comment) {
		return nil, fmt.Errorf("%w: Недопустимые символы в комментарии", ErrValidation)
	}

	return &comment, nil
}

// AppointmentTime проверяет время записи относительно текущего момента:
// строго в будущем, не раньше минимального уведомления, не дальше
// горизонта записи, в пределах рабочих часов [start, end).
func AppointmentTime(t time.Time, now time.Time, rules domain.ScheduleRules) error {
	if !t.After(now) {
		return fmt.Errorf("%w: Время записи должно быть в будущем", ErrValidation)
	}

	if t.Before(now.Add(time.Duration(rules.MinAdvanceHours) * time.Hour)) {
		return fmt.Errorf("%w: Запись возможна минимум за %d ч.", ErrValidation, rules.MinAdvanceHours)
	}

	if t.After(now.AddDate(0, 0, rules.MaxAdvanceDays)) {
		return fmt.Errorf("%w: Запись возможна максимум за %d дн.", ErrValidation, rules.MaxAdvanceDays)
	}

	if t.Hour() < rules.WorkStartHour || t.Hour() >= rules.WorkEndHour {
		return fmt.Errorf("%w: Запись возможна только с %d:00 до %d:00", ErrValidation,
			rules.WorkStartHour, rules.WorkEndHour)
	}

	return nil
}

// Amount разбирает и проверяет денежную сумму транзакции
func Amount(raw string) (money.Money, error) {
	amount, err := money.Parse(raw)
	if err != nil {
		if errors.Is(err, money.ErrTooManyDecimals) {
			return 0, fmt.Errorf("%w: Максимум 2 знака после запятой", ErrValidation)
		}
		return 0, fmt.Errorf("%w: Неверный формат суммы", ErrValidation)
	}

	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: Сумма должна быть больше нуля", ErrValidation)
	}
	if amount > maxAmount {
		return 0, fmt.Errorf("%w: Сумма слишком большая", ErrValidation)
	}

	return amount, nil
}

// ServicePrice разбирает и проверяет цену услуги
func ServicePrice(raw string) (money.Money, error) {
	price, err := money.Parse(raw)
	if err != nil {
		if errors.Is(err, money.ErrTooManyDecimals) {
			return 0, fmt.Errorf("%w: Максимум 2 знака после запятой", ErrValidation)
		}
		return 0, fmt.Errorf("%w: Неверный формат цены", ErrValidation)
	}

	return price, PriceValue(price)
}

// PriceValue проверяет уже разобранную цену услуги
func PriceValue(price money.Money) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: Цена должна быть больше нуля", ErrValidation)
	}
	if price > money.FromRubles(domain.MaxServicePriceRubles) {
		return fmt.Errorf("%w: Цена не может быть больше 1 000 000", ErrValidation)
	}
	return nil
}

// ServiceName проверяет название услуги
func ServiceName(raw string) (string, error) {
	name := strings.TrimSpace(raw)

	length := len([]rune(name))
	if length < domain.MinServiceNameLength {
		return "", fmt.Errorf("%w: Название услуги должно содержать минимум %d символа", ErrValidation, domain.MinServiceNameLength)
	}
	if length > domain.MaxServiceNameLength {
		return "", fmt.Errorf("%w: Название услуги не должно превышать %d символов", ErrValidation, domain.MaxServiceNameLength)
	}

	return name, nil
}

// ServiceDescription проверяет описание услуги
func ServiceDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)

	length := len([]rune(description))
	if length < domain.MinDescriptionLength {
		return "", fmt.Errorf("%w: Описание услуги должно содержать минимум %d символов", ErrValidation, domain.MinDescriptionLength)
	}
	if length > domain.MaxDescriptionLength {
		return "", fmt.Errorf("%w: Описание услуги не должно превышать %d символов", ErrValidation, domain.MaxDescriptionLength)
	}

	return description, nil
}

// ServiceDuration проверяет длительность услуги в минутах
func ServiceDuration(minutes int) error {
	if minutes < domain.MinDurationMinutes {
		return fmt.Errorf("%w: Минимальная длительность услуги %d минут", ErrValidation, domain.MinDurationMinutes)
	}
	if minutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: Максимальная длительность услуги 8 часов", ErrValidation)
	}
	return nil
}

// Category проверяет категорию транзакции
func Category(raw string) (string, error) {
	category := strings.TrimSpace(raw)

	length := len([]rune(category))
	if length < domain.MinCategoryLength {
		return "", fmt.Errorf("%w: Категория слишком короткая", ErrValidation)
	}
	if length > domain.MaxCategoryLength {
		return "", fmt.Errorf("%w: Категория слишком длинная", ErrValidation)
	}
	if !categoryRe.MatchString(category) {
		return "", fmt.Errorf("%w: Недопустимые символы в названии категории", ErrValidation)
	}

	return category, nil
}

// Status проверяет строковый статус записи и разбирает его в доменный тип
func Status(raw string) (domain.AppointmentStatus, error) {
	status, err := domain.ParseAppointmentStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: Неверный статус. Допустимые значения: pending, confirmed, completed, cancelled, rescheduled", ErrValidation)
	}
	return status, nil
}

// TransactionType проверяет строковый тип транзакции и разбирает его в доменный тип
func TransactionType(raw string) (domain.TransactionType, error) {
	txType, err := domain.ParseTransactionType(raw)
	if err != nil {
		return "", fmt.Errorf("%w: Неверный тип транзакции. Допустимые значения: income, expense", ErrValidation)
	}
	return txType, nil
}
