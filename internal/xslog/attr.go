package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/fitgate/internal/permission"
	"github.com/garrettladley/fitgate/internal/version"
	"github.com/garrettladley/fitgate/internal/xhttp"
)

const (
	keyError       = "error"
	keyStack       = "stack"
	keyRequestID   = "request_id"
	keyStatus      = "status"
	keyDuration    = "duration"
	keyMethod      = "method"
	keyPath        = "path"
	keyIP          = "ip"
	keyVersion     = "version"
	keyPort        = "port"
	keyOperation   = "operation"
	keyKind        = "kind"
	keyPermissions = "permissions"
	keyScopes      = "scopes"
	keyCount       = "count"
	keyStart       = "start"
	keyEnd         = "end"
	keyDataType    = "data_type"
	keyStream      = "stream_id"
)

func Error(err error) slog.Attr { return slog.String(keyError, err.Error()) }

func Stack() slog.Attr { return slog.String(keyStack, string(debug.Stack())) }

func RequestID(id string) slog.Attr { return slog.String(keyRequestID, id) }

func HTTPStatus(status int) slog.Attr { return slog.Int(keyStatus, status) }

func Duration(d time.Duration) slog.Attr { return slog.Duration(keyDuration, d) }

func Method(method string) slog.Attr { return slog.String(keyMethod, method) }

func Path(path string) slog.Attr { return slog.String(keyPath, path) }

func RequestMethod(r *http.Request) slog.Attr { return Method(r.Method) }

func RequestPath(r *http.Request) slog.Attr { return Path(r.URL.Path) }

func RequestIP(r *http.Request) slog.Attr { return slog.String(keyIP, xhttp.ClientIP(r)) }

func Version() slog.Attr { return slog.String(keyVersion, version.Get()) }

func Port(port string) slog.Attr { return slog.String(keyPort, port) }

// Operation names a gateway operation, e.g. query_total.
func Operation(op string) slog.Attr { return slog.String(keyOperation, op) }

func Kind(kind permission.Kind) slog.Attr { return slog.String(keyKind, string(kind)) }

func Permissions(set permission.Set) slog.Attr { return slog.String(keyPermissions, set.String()) }

// Scopes logs how many OAuth scopes a grant holds, not the scopes themselves.
func Scopes(scopes []string) slog.Attr { return slog.Int(keyScopes, len(scopes)) }

func Count(count int) slog.Attr { return slog.Int(keyCount, count) }

func Start(t time.Time) slog.Attr { return slog.Time(keyStart, t) }

func End(t time.Time) slog.Attr { return slog.Time(keyEnd, t) }

// DataType is a Google Fit data type name such as com.google.step_count.delta.
func DataType(name string) slog.Attr { return slog.String(keyDataType, name) }

// Stream is a Google Fit data stream id.
func Stream(id string) slog.Attr { return slog.String(keyStream, id) }
