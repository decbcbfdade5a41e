package validation

import "errors"

// ErrValidation базовая ошибка валидации входных данных.
// Текст после сентинела содержит причину для показа пользователю.
var ErrValidation = errors.New("validation: invalid value")
