package ports

import "context"

// ResponseCache — кэш сериализованных ответов, ключ — фингерпринт запроса
// (см. internal/cache). Реализация потокобезопасна; гонки заполнения
// допустимы — побеждает последняя запись, источником истины остаётся БД.
type ResponseCache interface {
	// Get — (payload, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set — сохранить/перезаписать значение по ключу.
	Set(ctx context.Context, key string, payload []byte) error

	// Delete — удалить точечные ключи (отсутствие ключа — не ошибка).
	Delete(ctx context.Context, keys ...string) error

	// InvalidateViews — сбросить все агрегатные представления
	// (списки, фильтрованные выборки), точечные записи не трогаются.
	InvalidateViews(ctx context.Context) error

	// InvalidateAll — сбросить все записи, включая точечные.
	InvalidateAll(ctx context.Context) error
}
