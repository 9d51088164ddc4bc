// Package fetch performs the one network GET of the pipeline: downloading
// the subscription body. Everything that can go wrong here is a transport
// error, kept distinct from the "reached but unusable" empty-result error
// raised further down the pipeline.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/John-Robertt/clashgen-go/internal/model"
)

// Some subscription endpoints fingerprint clients; a plain curl UA gets the
// raw base64 body instead of an HTML landing page.
const userAgent = "curl/8.5.0"

type Options struct {
	Timeout      time.Duration // default 15s
	MaxBytes     int64         // default 5 MiB
	MaxRedirects int           // default 5
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = 5 * 1024 * 1024
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = 5
	}
	return o
}

// FetchError is the transport-error condition: network failure, timeout,
// non-2xx status, oversize or empty body.
type FetchError struct {
	Status   int
	AppError model.AppError
	Cause    error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

var (
	errTooManyRedirects  = errors.New("too many redirects")
	errRedirectBadScheme = errors.New("redirect target scheme is not http/https")
)

func fetchError(status int, code, message, rawURL string, cause error) error {
	return &FetchError{
		Status: status,
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   "fetch_sub",
			URL:     rawURL,
		},
		Cause: cause,
	}
}

// Text downloads rawURL and returns the trimmed body. The body is expected
// to be the base64 node list; decoding is the caller's concern.
func Text(ctx context.Context, rawURL string, opt Options) (string, error) {
	opt = opt.withDefaults()

	u, err := url.Parse(rawURL)
	if err != nil || u == nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fetchError(http.StatusBadRequest, "INVALID_ARGUMENT", "仅允许 http/https URL", rawURL, err)
	}

	client := &http.Client{
		Timeout:   opt.Timeout,
		Transport: http.DefaultTransport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > opt.MaxRedirects {
				return errTooManyRedirects
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return errRedirectBadScheme
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fetchError(http.StatusBadRequest, "INVALID_ARGUMENT", "请求 URL 不合法", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, errTooManyRedirects) {
			return "", fetchError(http.StatusBadGateway, "FETCH_FAILED",
				fmt.Sprintf("重定向次数超过上限（>%d）", opt.MaxRedirects), rawURL, err)
		}
		if errors.Is(err, errRedirectBadScheme) {
			return "", fetchError(http.StatusBadRequest, "INVALID_ARGUMENT", "重定向目标仅允许 http/https", rawURL, err)
		}
		if isTimeout(err) {
			return "", fetchError(http.StatusGatewayTimeout, "FETCH_TIMEOUT", "拉取订阅超时", rawURL, err)
		}
		return "", fetchError(http.StatusBadGateway, "FETCH_FAILED", "拉取订阅失败", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fetchError(http.StatusBadGateway, "FETCH_FAILED",
			fmt.Sprintf("HTTP 状态异常：%d", resp.StatusCode), rawURL, nil)
	}

	// Read at most MaxBytes+1 to detect overflow deterministically.
	body, err := io.ReadAll(io.LimitReader(resp.Body, opt.MaxBytes+1))
	if err != nil {
		if isTimeout(err) {
			return "", fetchError(http.StatusGatewayTimeout, "FETCH_TIMEOUT", "拉取订阅超时", rawURL, err)
		}
		return "", fetchError(http.StatusBadGateway, "FETCH_FAILED", "读取订阅响应失败", rawURL, err)
	}
	if int64(len(body)) > opt.MaxBytes {
		return "", fetchError(http.StatusUnprocessableEntity, "TOO_LARGE",
			fmt.Sprintf("订阅内容过大（>%d bytes）", opt.MaxBytes), rawURL, nil)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fetchError(http.StatusBadGateway, "FETCH_EMPTY_BODY", "订阅响应为空", rawURL, nil)
	}
	return text, nil
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
