package paymentgateway

import "errors"

var (
	// ErrMisconfigured шлюз не настроен или отклонил наши ключи; повтор не поможет
	ErrMisconfigured = errors.New("paymentgateway: gateway is misconfigured")

	// ErrUnavailable шлюз недоступен или ответил 5xx; запрос можно повторить
	ErrUnavailable = errors.New("paymentgateway: gateway unavailable")

	// ErrInvalidResponse шлюз вернул ответ, который не удалось разобрать
	ErrInvalidResponse = errors.New("paymentgateway: invalid response")

	// ErrRejected шлюз отклонил параметры заказа
	ErrRejected = errors.New("paymentgateway: order rejected")
)
