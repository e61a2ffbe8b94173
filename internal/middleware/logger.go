package middleware

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// RequestLogger writes one structured line per request. 5xx responses log at
// error level, 4xx at warn.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURIPath:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.String("ip", v.RemoteIP),
				zap.String("user-agent", v.UserAgent),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if version, ok := c.Get("api_version").(string); ok {
				fields = append(fields, zap.String("api_version", version))
			}

			switch {
			case v.Status >= 500:
				logger.Error("Server error", append(fields, zap.Error(v.Error))...)
			case v.Status >= 400:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request", fields...)
			}
			return nil
		},
	})
}
