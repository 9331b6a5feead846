// Package errors turns errors into short, low-cardinality class names for logs and metric labels.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strconv"
	"strings"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
)

// Classify returns a class name for err: "timeout", "canceled", "http_<status>",
// "decode" (2xx with an unreadable body), "transport", or the innermost error's type name.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	var le *domainauth.LookupError
	if goerrors.As(err, &le) && le.StatusCode > 0 {
		if le.StatusCode >= 200 && le.StatusCode < 300 {
			return "decode"
		}
		return "http_" + strconv.Itoa(le.StatusCode)
	}

	var ne net.Error
	if goerrors.As(err, &ne) {
		if ne.Timeout() {
			return "timeout"
		}
		return "transport"
	}

	return typeName(err)
}

func typeName(err error) string {
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
