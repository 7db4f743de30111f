package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из строки конфигурации (регистр не важен)
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger представляет логгер отдельного компонента
type Logger struct {
	component     string
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	file          *os.File

	mu              sync.RWMutex
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

// Общие настройки для новых логгеров
var (
	settingsMu sync.RWMutex
	logDir     string
)

var (
	consoleLevel LogLevel  = INFO
	consoleOut   io.Writer = os.Stdout
)

// Configure задаёт каталог для файлов логов ("" — только консоль)
// и минимальный уровень консоли для логгеров, созданных после вызова.
func Configure(dir string, level LogLevel) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	logDir = dir
	consoleLevel = level
}

// SetConsoleOutput перенаправляет консольный вывод новых логгеров
func SetConsoleOutput(w io.Writer) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	consoleOut = w
}

// NewLogger создаёт логгер компонента. Если задан каталог логов,
// все уровни дополнительно пишутся в файл <component>_<timestamp>.log.
func NewLogger(component string) (*Logger, error) {
	settingsMu.RLock()
	dir, level, out := logDir, consoleLevel, consoleOut
	settingsMu.RUnlock()

	prefix := fmt.Sprintf("[%s] ", component)
	l := &Logger{
		component:       component,
		consoleLogger:   log.New(out, prefix, log.LstdFlags),
		minConsoleLevel: level,
		minFileLevel:    TRACE,
	}

	if dir == "" {
		return l, nil
	}

	// Создаем директорию для логов
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	// Создаем файл для логов с временной меткой
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	l.file = file
	l.fileLogger = log.New(file, prefix, log.LstdFlags)
	return l, nil
}

// Component возвращает имя компонента
func (l *Logger) Component() string {
	return l.component
}

// SetLevels меняет минимальные уровни консоли и файла
func (l *Logger) SetLevels(console, file LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minConsoleLevel = console
	l.minFileLevel = file
}

// Close закрывает файл логов, если он открыт
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileLogger = nil
	return err
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) {
	l.logMessage(TRACE, format, args...)
}

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logMessage(DEBUG, format, args...)
}

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) {
	l.logMessage(INFO, format, args...)
}

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logMessage(WARN, format, args...)
}

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) {
	l.logMessage(ERROR, format, args...)
}

// logMessage внутренняя функция для логирования
func (l *Logger) logMessage(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}

	l.mu.RLock()
	minConsole, minFile, fileLogger := l.minConsoleLevel, l.minFileLevel, l.fileLogger
	l.mu.RUnlock()

	if level < minConsole && (fileLogger == nil || level < minFile) {
		return
	}

	message := fmt.Sprintf("[%s] %s", level.String(), fmt.Sprintf(format, args...))

	if fileLogger != nil && level >= minFile {
		fileLogger.Println(message)
	}
	if level >= minConsole {
		l.consoleLogger.Println(message)
	}
}

// defaultLogger используется package-level функциями.
// До InitDefaultLogger пишет в консоль уровни INFO и выше.
var defaultLogger = &Logger{
	component:       "default",
	consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
	minConsoleLevel: INFO,
	minFileLevel:    ERROR,
}

var defaultMu sync.RWMutex

// InitDefaultLogger делает логгер компонента логгером по умолчанию
func InitDefaultLogger(component string) error {
	logger, err := GetLoggerManager().GetLogger(component)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
	return nil
}

// CloseDefaultLogger закрывает все логгеры компонентов
func CloseDefaultLogger() {
	if err := GetLoggerManager().CloseAll(); err != nil {
		getDefault().Error("Ошибка закрытия логгеров: %v", err)
	}
}

func getDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Trace логирует сообщение уровня TRACE в логгер по умолчанию
func Trace(format string, args ...interface{}) {
	getDefault().Trace(format, args...)
}

// Debug логирует сообщение уровня DEBUG в логгер по умолчанию
func Debug(format string, args ...interface{}) {
	getDefault().Debug(format, args...)
}

// Info логирует сообщение уровня INFO в логгер по умолчанию
func Info(format string, args ...interface{}) {
	getDefault().Info(format, args...)
}

// Warn логирует сообщение уровня WARN в логгер по умолчанию
func Warn(format string, args ...interface{}) {
	getDefault().Warn(format, args...)
}

// Error логирует сообщение уровня ERROR в логгер по умолчанию
func Error(format string, args ...interface{}) {
	getDefault().Error(format, args...)
}
