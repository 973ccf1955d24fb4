package notifier

import "errors"

var (
	// ErrUnknownDriver в конфигурации указан неизвестный драйвер
	ErrUnknownDriver = errors.New("notifier: unknown driver")

	// ErrConnect не удалось подключиться к брокеру
	ErrConnect = errors.New("notifier: failed to connect")

	// ErrPublish не удалось опубликовать уведомление
	ErrPublish = errors.New("notifier: failed to publish")
)
