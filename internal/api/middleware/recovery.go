package middleware

import (
	"net/http"
	"runtime"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
)

// Recovery превращает панику обработчика в 500 и пишет стек в лог
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)
					logger.Error("%s %s - Panic recovered: %v\n%s", r.Method, r.URL.Path, p, stack[:n])
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
