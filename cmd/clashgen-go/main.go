package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/clashgen-go/internal/clash"
	"github.com/John-Robertt/clashgen-go/internal/fetch"
	"github.com/John-Robertt/clashgen-go/internal/generate"
	"github.com/John-Robertt/clashgen-go/internal/serve"
)

func main() {
	output := flag.String("o", defaultOutputPath(time.Now()), "输出 YAML 路径")
	serveMode := flag.Bool("serve", false, "通过本地 HTTP 提供生成的 YAML")
	listen := flag.String("listen", "127.0.0.1", "监听地址")
	port := flag.Int("port", 9095, "监听端口")
	interval := flag.Int("interval", 300, "刷新间隔秒数")
	clashPort := flag.Int("clash-port", 1082, "生成配置的 HTTP 代理端口（SOCKS 为其 +1）")
	allowLAN := flag.Bool("allow-lan", false, "生成配置允许局域网访问")
	autoGroup := flag.Bool("auto-group", false, "额外生成 url-test 自动测速组")
	skipCertVerify := flag.Bool("skip-cert-verify", false, "TLS 节点跳过证书校验（不推荐）")
	fetchTimeout := flag.Duration("fetch-timeout", 15*time.Second, "拉取订阅的超时")
	flag.Parse()

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	url := flag.Arg(0)
	if url == "" {
		fmt.Fprintln(os.Stderr, "错误：需要提供订阅 URL")
		flag.Usage()
		os.Exit(2)
	}

	layout := clash.LayoutManual
	if *autoGroup {
		layout = clash.LayoutAutoManual
	}
	opt := generate.Options{
		Port:           *clashPort,
		AllowLAN:       *allowLAN,
		Layout:         layout,
		SkipCertVerify: *skipCertVerify,
		FetchTimeout:   *fetchTimeout,
	}

	if *serveMode {
		if err := runServe(url, *listen, *port, time.Duration(*interval)*time.Second, opt); err != nil {
			fmt.Fprintf(os.Stderr, "错误：%s\n", userMessage(err))
			os.Exit(2)
		}
		return
	}

	count, err := generate.FromURLToFile(context.Background(), url, *output, opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误：%s\n", userMessage(err))
		os.Exit(2)
	}
	logrus.Infof("已保存：%s（节点数=%d）", *output, count)
}

func runServe(url, listen string, port int, interval time.Duration, opt generate.Options) error {
	refresher, err := serve.NewRefresher(url, opt, interval)
	if err != nil {
		return err
	}
	refresher.Start()
	defer refresher.Stop()

	addr := fmt.Sprintf("%s:%d", listen, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           serve.NewHandler(refresher),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logrus.Infof("本地订阅服务：http://%s/clash.yaml", addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logrus.Infoln("收到退出信号")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			_ = srv.Close()
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// defaultOutputPath mirrors the desktop tool: ~/<date>.yaml.
func defaultOutputPath(now time.Time) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, now.Format("2006-01-02")+".yaml")
}

// userMessage extracts the human-readable message from the structured error
// types; anything unexpected falls back to the raw error text.
func userMessage(err error) string {
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		return fe.AppError.Message
	}
	var ee *generate.EmptyResultError
	if errors.As(err, &ee) {
		return ee.AppError.Message
	}
	var we *generate.WriteError
	if errors.As(err, &we) {
		return we.AppError.Message
	}
	var ce *generate.EncodeError
	if errors.As(err, &ce) {
		return ce.AppError.Message
	}
	return err.Error()
}
