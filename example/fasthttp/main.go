// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/compat"
	"github.com/spf13/pflag"
	"github.com/valyala/fasthttp"
)

func main() {
	addr := pflag.String("addr", ":8080", "listen address")
	logFile := pflag.String("log-file", "./fasthttp_logs/fasthttp.log", "log file path")
	pflag.Parse()

	// Create and configure the service
	svc := asynclog.NewService()
	err := svc.ApplyConfigString(
		"level=info",
		"enable_file=true",
		"file_path="+*logFile,
		"rollover_size_bytes=10485760",
	)
	if err != nil {
		panic(err)
	}
	defer svc.Close(false)

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		svc,
		compat.WithDefaultLevel(asynclog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Printf("Starting server on %s\n", *addr)
	if err := server.ListenAndServe(*addr); err != nil {
		svc.CriticalErr(err)
		svc.Close(false)
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) asynclog.Level {
	if strings.Contains(msg, "connection cannot be served") {
		return asynclog.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return asynclog.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
