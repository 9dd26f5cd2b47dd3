package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	logMutex sync.Mutex
)

// InitLogging sets up the level loggers, writing to stdout/stderr and to
// rotated files under logDir.
func InitLogging(logDir string) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	infoFile := rotatedLogFile(filepath.Join(logDir, "info.log"))
	warnFile := rotatedLogFile(filepath.Join(logDir, "warn.log"))
	errorFile := rotatedLogFile(filepath.Join(logDir, "error.log"))

	infoWriter := io.MultiWriter(os.Stdout, infoFile)
	warnWriter := io.MultiWriter(os.Stdout, warnFile)
	errorWriter := io.MultiWriter(os.Stderr, errorFile)

	infoLog = log.New(infoWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(warnWriter, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errorWriter, "ERROR: ", log.Ldate|log.Ltime)

	// Override Go's default log.
	log.SetOutput(infoWriter)
}

func rotatedLogFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name()
}

func logAt(level string, format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()

	message := fmt.Sprintf(format, v...)
	logEntry := fmt.Sprintf("[%s] %s", getCallerInfo(), message)

	switch level {
	case "WARNING":
		if warnLog != nil {
			warnLog.Println(logEntry)
			return
		}
	case "ERROR":
		if errorLog != nil {
			errorLog.Println(logEntry)
			return
		}
	default:
		if infoLog != nil {
			infoLog.Println(logEntry)
			return
		}
	}
	// Logging not initialized yet (tests, early startup).
	log.Printf("%s: %s", level, logEntry)
}

func Info(format string, v ...interface{}) {
	logAt("INFO", format, v...)
}

func Warn(format string, v ...interface{}) {
	logAt("WARNING", format, v...)
}

func Error(format string, v ...interface{}) {
	logAt("ERROR", format, v...)
}
