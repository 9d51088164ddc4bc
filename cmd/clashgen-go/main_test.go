package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/John-Robertt/clashgen-go/internal/fetch"
	"github.com/John-Robertt/clashgen-go/internal/generate"
	"github.com/John-Robertt/clashgen-go/internal/model"
)

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	got := defaultOutputPath(now)
	if !strings.HasSuffix(got, "2024-03-07.yaml") {
		t.Fatalf("defaultOutputPath=%q, want *2024-03-07.yaml", got)
	}
}

func TestUserMessage(t *testing.T) {
	fe := &fetch.FetchError{AppError: model.AppError{Code: "FETCH_FAILED", Message: "拉取订阅失败"}}
	if got := userMessage(fe); got != "拉取订阅失败" {
		t.Fatalf("userMessage(FetchError)=%q", got)
	}

	ee := &generate.EmptyResultError{AppError: model.AppError{Code: "SUB_EMPTY_RESULT", Message: "解析结果为空"}}
	if got := userMessage(ee); got != "解析结果为空" {
		t.Fatalf("userMessage(EmptyResultError)=%q", got)
	}

	plain := errors.New("boom")
	if got := userMessage(plain); got != "boom" {
		t.Fatalf("userMessage(plain)=%q", got)
	}
}
