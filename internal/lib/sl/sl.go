// Package sl содержит вспомогательные функции для структурированного
// логирования через slog. Единообразные ключи упрощают поиск по логам.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("reconciliation failed", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Vendor возвращает slog.Attr с внешним идентификатором вендора.
func Vendor(externalID string) slog.Attr {
	return slog.Attr{
		Key:   "vendor_external_id",
		Value: slog.StringValue(externalID),
	}
}
