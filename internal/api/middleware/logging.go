package middleware

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// LoggingMiddleware is a middleware for logging requests and responses
type LoggingMiddleware struct {
	logBodies bool
}

// NewLoggingMiddleware creates a new logging middleware. Request and response
// bodies are only logged when logBodies is set.
func NewLoggingMiddleware(logBodies bool) LoggingMiddleware {
	return LoggingMiddleware{logBodies: logBodies}
}

// Handle handles the logging middleware
func (m LoggingMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		startTime := time.Now()

		logger = logger.With(zap.String("requestId", request.RequestContext.RequestID))
		m.logRequest(request, logger)

		response, err := next(ctx, logger, request)

		m.logResponse(response, err, time.Since(startTime), logger)
		return response, err
	}
}

func (m LoggingMiddleware) logRequest(request events.APIGatewayProxyRequest, logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("method", request.HTTPMethod),
		zap.String("path", request.Path),
		zap.String("sourceIp", request.RequestContext.Identity.SourceIP),
		zap.Any("headers", maskSensitiveHeaders(request.Headers)),
	}
	if m.logBodies && request.Body != "" {
		fields = append(fields, zap.String("body", request.Body))
	}
	logger.Info("REQUEST", fields...)
}

func (m LoggingMiddleware) logResponse(response events.APIGatewayProxyResponse, err error, duration time.Duration, logger *zap.Logger) {
	if err != nil {
		logger.Error("ERROR", zap.Error(err))
	}

	fields := []zap.Field{
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", duration),
	}
	if m.logBodies && response.Body != "" {
		fields = append(fields, zap.String("body", response.Body))
	}
	logger.Info("RESPONSE", fields...)
}

// maskSensitiveHeaders masks sensitive headers
func maskSensitiveHeaders(headers map[string]string) map[string]string {
	maskedHeaders := make(map[string]string, len(headers))
	for k, v := range headers {
		maskedHeaders[k] = v
	}

	sensitiveHeaders := []string{
		"Authorization",
		"authorization",
		"X-Api-Key",
		"Cookie",
	}
	for _, header := range sensitiveHeaders {
		if _, ok := maskedHeaders[header]; ok {
			maskedHeaders[header] = "***"
		}
	}

	return maskedHeaders
}
