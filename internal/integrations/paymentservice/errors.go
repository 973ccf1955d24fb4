package paymentservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrInvalidQuote сумма задатка и финального платежа превышает стоимость бронирования
	ErrInvalidQuote = errors.New("paymentservice client: scheduled payments exceed total price")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Бронирование создается без финансовых полей
	ErrServiceDegraded = errors.New("paymentservice unavailable: graceful degradation applied")
)
