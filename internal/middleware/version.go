package middleware

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"moldmes/internal/common"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware provides API versioning functionality
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

// NewVersionMiddleware creates a new version middleware instance
func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {
				Version: "v1",
				Status:  "active",
				Message: "Current stable API version",
			},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)

			if ver, exists := vm.supportedVersions[version]; exists {
				if ver.Status == "deprecated" && ver.SunsetDate != nil {
					h.Set("X-API-Deprecated", "true")
					h.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
					h.Set("Warning", "299 moldmes \"This API version is deprecated and will be removed on "+ver.SunsetDate.Format("2006-01-02")+"\"")
				}
			}

			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(vm.VersionHeader(version))
	return group
}

// APIVersionResolver resolves the API version from the request path and
// rejects versions that are not served.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}

			if _, supported := vm.supportedVersions[version]; !supported {
				return c.JSON(http.StatusNotFound, common.CreateErrorResponse(
					"UNSUPPORTED_VERSION", "Unsupported API version",
					map[string]string{"supported_versions": vm.supportedList()}))
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// extractVersionFromPath returns "vN" for paths like /vN or /vN/...
func extractVersionFromPath(path string) string {
	if len(path) < 3 || path[0] != '/' || path[1] != 'v' {
		return ""
	}
	end := 2
	for end < len(path) && path[end] >= '0' && path[end] <= '9' {
		end++
	}
	if end == 2 || (end < len(path) && path[end] != '/') {
		return ""
	}
	n, err := strconv.Atoi(path[2:end])
	if err != nil || n <= 0 {
		return ""
	}
	return "v" + strconv.Itoa(n)
}

func (vm *VersionMiddleware) supportedList() string {
	versions := make([]string, 0, len(vm.supportedVersions))
	for version := range vm.supportedVersions {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	return strings.Join(versions, ", ")
}

// GetCurrentVersion returns the current active API version
func (vm *VersionMiddleware) GetCurrentVersion() string {
	return vm.defaultVersion
}

// AddVersion adds a new API version with its configuration
func (vm *VersionMiddleware) AddVersion(version string, status string, message string, sunsetDate *time.Time) {
	vm.supportedVersions[version] = APIVersion{
		Version:    version,
		Status:     status,
		SunsetDate: sunsetDate,
		Message:    message,
	}
}
