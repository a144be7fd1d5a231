package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/asynclog"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[log]
  level = "debug"
  enable_console = true
  enable_file = true
  file_path = "./simple_logs/simple.log"
  rollover_size_bytes = 1048576
  flush_interval_ms = 500
  # Other settings use defaults
`

func main() {
	configFile := pflag.String("config", "simple_config.toml", "config file to create and load")
	savedFile := pflag.String("save", "simple_config_saved.toml", "where to save the effective config")
	pflag.Parse()

	fmt.Println("--- Simple asynclog Example ---")

	if err := os.WriteFile(*configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write example config: %v\n", err)
	} else {
		fmt.Printf("Created example config file: %s\n", *configFile)
	}

	if err := asynclog.LoadConfig(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Service initialized.")

	if err := asynclog.SaveConfig(*savedFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save configuration to '%s': %v\n", *savedFile, err)
	} else {
		fmt.Printf("Configuration saved to: %s\n", *savedFile)
	}

	asynclog.Debug("This is a debug message.")
	asynclog.Info("Application starting...")
	asynclog.Warning("Potential issue detected.")
	asynclog.Error("An error occurred!")
	asynclog.InfoFunc(func() any { return map[string]int{"user_id": 123, "retries": 2} })
	asynclog.ErrorErr(errors.Wrap(errors.New("connection refused"), "dial backend"))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			asynclog.Info(fmt.Sprintf("Goroutine %d started", id))
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			asynclog.Info(fmt.Sprintf("Goroutine %d finished", id))
		}(i)
	}
	wg.Wait()
	fmt.Println("Goroutines finished.")

	fmt.Println("Closing service...")
	asynclog.Close(false)
	fmt.Println("Service closed.")

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in './simple_logs' and the saved config '%s'.\n", *savedFile)
}
