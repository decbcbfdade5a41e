package ptr

// Ptr возвращает указатель на значение.
// Удобно для передачи литералов в опциональные поля фильтров.
func Ptr[T any](v T) *T {
	return &v
}
