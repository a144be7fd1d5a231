package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/asynclog"
	"github.com/spf13/pflag"
)

var levels = []asynclog.Level{
	asynclog.LevelTrace,
	asynclog.LevelDebug,
	asynclog.LevelInfo,
	asynclog.LevelWarning,
	asynclog.LevelError,
	asynclog.LevelCritical,
}

var service *asynclog.Service

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID, logsPerBurst, maxMessageSize int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := fmt.Sprintf("bst=%d seq=%d %s", burstID, i, generateRandomMessage(rand.Intn(maxMessageSize)+10))
		switch level {
		case asynclog.LevelTrace:
			service.Trace(msg)
		case asynclog.LevelDebug:
			service.Debug(msg)
		case asynclog.LevelInfo:
			service.Info(msg)
		case asynclog.LevelWarning:
			service.Warning(msg)
		case asynclog.LevelError:
			service.Error(msg)
		case asynclog.LevelCritical:
			service.CriticalFunc(func() any { return msg })
		}
	}
}

// producer goroutine function
func producer(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64, totalBursts, logsPerBurst, maxMessageSize int) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID, logsPerBurst, maxMessageSize)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == int64(totalBursts) {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	var (
		dir            = pflag.String("dir", "./stress_logs", "log directory")
		level          = pflag.String("level", "debug", "filter level")
		rolloverBytes  = pflag.Int64("rollover-bytes", 1024*1024, "rollover threshold in bytes")
		rolloverMs     = pflag.Int64("rollover-check-ms", 1000, "rollover check interval")
		totalBursts    = pflag.Int("bursts", 100, "number of bursts")
		logsPerBurst   = pflag.Int("logs-per-burst", 500, "records per burst")
		maxMessageSize = pflag.Int("max-message", 2000, "max random message size")
		numProducers   = pflag.Int("producers", 50, "concurrent producers")
		diagnostics    = pflag.Bool("diagnostics", true, "print service diagnostics to stderr")
	)
	pflag.Parse()

	fmt.Println("--- asynclog Stress Test ---")
	_ = os.RemoveAll(*dir)

	var err error
	service, err = asynclog.NewBuilder().
		LevelString(*level).
		EnableConsole(false).
		File(filepath.Join(*dir, "stress.log")).
		RolloverSizeBytes(*rolloverBytes).
		RolloverCheckMs(*rolloverMs).
		Diagnostics(*diagnostics).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Service initialized. Logs will be written to: %s\n", *dir)
	fmt.Printf("Starting stress test: %d producers, %d bursts, %d logs/burst.\n",
		*numProducers, *totalBursts, *logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	burstChan := make(chan int, *numProducers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < *numProducers; i++ {
		wg.Add(1)
		go producer(burstChan, &wg, &completedBursts, *totalBursts, *logsPerBurst, *maxMessageSize)
	}

	startTime := time.Now()
	for i := 1; i <= *totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			goto endLoop
		}
	}
endLoop:
	close(burstChan)

	fmt.Println("\nWaiting for producers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, *totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*int64(*logsPerBurst)) / duration.Seconds()
		fmt.Printf("Approximate enqueue rate: %.2f logs/sec\n", logsPerSec)
	}

	fmt.Printf("Queue depth before close: %d\n", service.Stats().QueueDepth)
	fmt.Println("Closing service (draining queue)...")
	closeStart := time.Now()
	service.Close(false)
	fmt.Printf("Drained in %v\n", time.Since(closeStart).Round(time.Millisecond))

	st := service.Stats()
	fmt.Printf("enqueued=%d processed=%d filtered=%d failed=%d io_errors=%d rollovers=%d last_file=%s\n",
		st.Enqueued, st.Processed, st.Filtered, st.Failed, st.IOErrors, st.Rollovers, st.FilePath)
}
