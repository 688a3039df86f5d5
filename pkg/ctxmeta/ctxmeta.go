// Пакет ctxmeta — нейтральный слой для работы с метаданными запроса,
// которые прокидываются через context.Context (request_id, subject, trace_id).
// Идея: HTTP-слой и логгер зависят от небольшого общего пакета, но не друг от друга.
// Subject — имя аутентифицированного пользователя и используется только для
// логов; авторизация работает с явно передаваемым Principal, а не с контекстом.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемые типы — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeySubject   ctxKey = "subject"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(KeyRequestID).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSubject кладёт имя аутентифицированного пользователя в контекст.
func WithSubject(ctx context.Context, subject string) context.Context {
	if ctx == nil || subject == "" {
		return ctx
	}
	return context.WithValue(ctx, KeySubject, subject)
}

// SubjectFromContext достаёт имя пользователя из контекста.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(KeySubject).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
