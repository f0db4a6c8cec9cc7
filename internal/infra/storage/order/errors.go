package order

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("order.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("order.repository: failed to execute query")

	// ErrEncodePayload возвращается, если payload заказа не удалось сериализовать
	ErrEncodePayload = errors.New("order.repository: failed to encode payload")
)
