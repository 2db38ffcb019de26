package middlewares

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/sbilibin2017/bestellsystem/internal/handlers"
	"github.com/sbilibin2017/bestellsystem/internal/logger"
)

// RecovererMiddleware turns panics raised by downstream handlers into error
// envelopes. A panic carrying an error keeps its classification, so a typed
// application error still produces its own status code. A panic raised
// after the response has started is only logged.
func RecovererMiddleware(log handlers.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// net/http aborts the connection silently
					panic(rec)
				}

				err := panicError(rec, debug.Stack())
				if rw.wroteHeader {
					log.Errorw("panic after response started",
						logger.RequestIDKey, logger.RequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"status", rw.statusCode,
						logger.Exception(err),
					)
					return
				}

				handlers.WriteError(w, r, log, err)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// recoveredPanic is a recovered value together with the stack it was raised from.
type recoveredPanic struct {
	err   error
	stack []byte
}

func panicError(rec any, stack []byte) error {
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", rec)
	}
	return &recoveredPanic{err: err, stack: stack}
}

func (p *recoveredPanic) Error() string { return p.err.Error() }

func (p *recoveredPanic) Unwrap() error { return p.err }

// Format prints the stack with %+v so it ends up in the exception field.
func (p *recoveredPanic) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%s", p.err.Error(), p.stack)
		return
	}
	fmt.Fprint(s, p.Error())
}
