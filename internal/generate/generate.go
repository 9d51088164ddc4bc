// Package generate wires the pipeline: fetch -> split -> parse -> assemble
// -> serialize. One invocation is independent, synchronous, and holds no
// shared state; callers may run it concurrently for different URLs.
package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/John-Robertt/clashgen-go/internal/clash"
	"github.com/John-Robertt/clashgen-go/internal/fetch"
	"github.com/John-Robertt/clashgen-go/internal/model"
	"github.com/John-Robertt/clashgen-go/internal/sub"
)

type Options struct {
	// Assembler policy, passed through to clash.Build.
	Port           int
	AllowLAN       bool
	Layout         clash.GroupLayout
	SkipCertVerify bool

	FetchTimeout time.Duration // default 15s
}

// Result is one complete generation. Config stays valid even when a later
// serialization or write step fails.
type Result struct {
	Count  int
	Config *clash.Config
	YAML   []byte
}

// EmptyResultError means the fetch succeeded but zero descriptors were
// extracted: the body was likely not a base64 node list, or contains only
// unsupported schemes. Deliberately distinct from *fetch.FetchError so the
// operator can tell "couldn't reach" apart from "reached but unusable".
type EmptyResultError struct {
	AppError model.AppError
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
}

// EncodeError wraps a serialization failure.
type EncodeError struct {
	AppError model.AppError
	Cause    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// FromURL runs the whole pipeline against one subscription URL.
func FromURL(ctx context.Context, rawURL string, opt Options) (*Result, error) {
	body, err := fetch.Text(ctx, rawURL, fetch.Options{Timeout: opt.FetchTimeout})
	if err != nil {
		return nil, err
	}

	proxies := sub.ParseAll(sub.SplitLines(body))
	if len(proxies) == 0 {
		return nil, &EmptyResultError{AppError: model.AppError{
			Code:    "SUB_EMPTY_RESULT",
			Message: "解析结果为空：订阅可能不是 base64 列表，或不包含 ss/vmess。",
			Stage:   "generate",
			URL:     rawURL,
		}}
	}

	cfg := clash.Build(proxies, clash.BuildOptions{
		Port:           opt.Port,
		AllowLAN:       opt.AllowLAN,
		Layout:         opt.Layout,
		SkipCertVerify: opt.SkipCertVerify,
	})

	text, err := cfg.Marshal()
	if err != nil {
		return nil, &EncodeError{
			AppError: model.AppError{
				Code:    "YAML_ENCODE_ERROR",
				Message: "配置序列化失败",
				Stage:   "generate",
				URL:     rawURL,
			},
			Cause: err,
		}
	}

	return &Result{Count: len(proxies), Config: cfg, YAML: text}, nil
}
