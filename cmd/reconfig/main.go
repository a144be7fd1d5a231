package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/asynclog"
	"github.com/spf13/pflag"
)

// Simulate rapid reconfiguration while a producer keeps logging
func main() {
	dir := pflag.String("dir", "./reconfig_logs", "log directory")
	rounds := pflag.Int("rounds", 10, "number of restarts")
	pflag.Parse()

	var count atomic.Int64
	svc := asynclog.NewService()

	path := func(i int) string { return filepath.Join(*dir, fmt.Sprintf("reconfig-%d.log", i)) }

	if err := svc.Init(asynclog.LevelInfo, asynclog.FileLog, path(0), 0); err != nil {
		fmt.Printf("Initial Init error: %v\n", err)
		os.Exit(1)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			svc.Info(fmt.Sprintf("Test log %d", i))
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Each Init drains the running worker and restarts on a new file
	for i := 1; i <= *rounds; i++ {
		level := asynclog.LevelInfo
		if i%2 == 0 {
			level = asynclog.LevelDebug
		}
		if err := svc.Init(level, asynclog.FileLog, path(i), 0); err != nil {
			fmt.Printf("Init error: %v\n", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	close(stop)
	<-done
	svc.Close(false)

	st := svc.Stats()
	fmt.Printf("Total logs attempted: %d\n", count.Load())
	fmt.Printf("enqueued=%d processed=%d rejected=%d restarts=%d\n", st.Enqueued, st.Processed, st.Rejected, st.Restarts)
}
