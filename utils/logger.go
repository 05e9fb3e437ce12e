package utils

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// InitLogger opens the optional log file configured under log.file.
// Logging works without it; messages then only go to standard output.
func InitLogger() {
	path := viper.GetString("log.file")
	if path == "" {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Warning: could not open log file %s: %v. File logging disabled.", path, err)
		return
	}

	mu.Lock()
	logFile = f
	mu.Unlock()
}

// CloseLogger closes the log file if one was opened.
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Log records a leveled message tagged with the emitting module and
// operation.
func Log(level, module, operation, details string) {
	line := fmt.Sprintf("[%s] Module: %s, Operation: %s, Details: %s", level, module, operation, details)
	log.Print(line)

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		fmt.Fprintf(logFile, "%s %s\n", time.Now().Format(time.RFC3339), line)
	}
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}
