package ports

import "context"

// Logger — контракт логгера для прикладных слоёв. Контекст нужен,
// чтобы обогащать записи request id и трейс-идентификаторами.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
