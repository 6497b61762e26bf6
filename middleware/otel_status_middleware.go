package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	return r.ResponseWriter.Write(b)
}

// OTelStatusHandler traces a request and flags the span as errored on
// 5xx responses. 4xx stays Unset per the OTel HTTP conventions.
func OTelStatusHandler(handler http.Handler, operationName string) http.Handler {
	tracer := otel.Tracer("scholar-retriever")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), operationName)
		defer span.End()

		rec := newStatusRecorder(w)
		handler.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(
			semconv.HTTPResponseStatusCode(rec.status),
		)
		if rec.status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}

// OTelStatusHandlerFunc wraps a bare http.HandlerFunc.
func OTelStatusHandlerFunc(handlerFunc http.HandlerFunc, operationName string) http.Handler {
	return OTelStatusHandler(handlerFunc, operationName)
}
