package shield

import (
	"net/http"

	"github.com/Zacy-Sokach/TrollShield/internal/i18n"
)

// StatusError 是非 2xx 响应对应的用户提示，Message 可以包含链接标记
type StatusError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusMessage 把状态码转换成带处理建议的本地化提示
func StatusMessage(printer *i18n.Printer, status int) string {
	switch status {
	case http.StatusUnauthorized:
		return printer.T(i18n.StatusAuth)
	case http.StatusForbidden:
		return printer.T(i18n.StatusRegion)
	case http.StatusTooManyRequests:
		return printer.T(i18n.StatusQuota)
	case http.StatusInternalServerError:
		return printer.T(i18n.StatusServer)
	case http.StatusServiceUnavailable:
		return printer.T(i18n.StatusOverload)
	default:
		return printer.T(i18n.StatusGeneric, status)
	}
}
