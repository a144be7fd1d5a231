// FILE: example/gnet/main.go
package main

import (
	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/compat"
	"github.com/panjf2000/gnet/v2"
	"github.com/spf13/pflag"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	addr := pflag.String("addr", "tcp://127.0.0.1:9000", "listen address")
	logFile := pflag.String("log-file", "./gnet_logs/gnet.log", "log file path")
	pflag.Parse()

	cfg := asynclog.DefaultConfig()
	cfg.Level = "debug"
	cfg.EnableFile = true
	cfg.FilePath = *logFile
	cfg.RolloverSizeBytes = 10 * 1024 * 1024

	builder := compat.NewBuilder().WithConfig(cfg)
	gnetAdapter, err := builder.BuildGnet()
	if err != nil {
		panic(err)
	}
	svc, _ := builder.GetService()
	defer svc.Close(false)

	err = gnet.Run(
		&echoServer{},
		*addr,
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
