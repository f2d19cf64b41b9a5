package report

import "fmt"

// Raporlama katmanının tipli hataları. Handler katmanı bunları
// errors.As ile HTTP durum kodlarına çevirir; motor ve renderer
// hatayı olduğu gibi yukarı taşır.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// RenderError: Belge üretimi yarıda kaldı. Kısmi çıktı asla
// çağırana dönmez, hata ile birlikte atılır.
type RenderError struct {
	Msg string
	Err error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *RenderError) Unwrap() error { return e.Err }

type DeliveryError struct {
	Msg string
	Err error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *DeliveryError) Unwrap() error { return e.Err }
