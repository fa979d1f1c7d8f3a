package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DEFAULT_TIMESTAMP_FORMAT = "2006-01-02 15:04:05"
)

type PlainFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

func (f *PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	return []byte(fmt.Sprintf("%s %s %s\n", f.LevelDesc[entry.Level], timestamp, entry.Message)), nil
}

func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{
		TimestampFormat: DEFAULT_TIMESTAMP_FORMAT,
		LevelDesc:       []string{"PANC", "FATL", "ERRO", "WARN", "INFO", "DEBG", "TRAC"},
	}
}

type Config struct {
	Debug      bool   `koanf:"debug"`
	Filename   string `koanf:"filename"`
	MaxSizeMB  int    `koanf:"max_size"` // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age"` // Days
	Compress   bool   `koanf:"compress"`
}

func (cfg *Config) Validate() error {
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return fmt.Errorf("logging: max_size, max_backups and max_age must not be negative")
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		Filename:   "logs/flyover.log",
		MaxSizeMB:  50,
		MaxBackups: 10,
		MaxAgeDays: 30,
		Compress:   true,
	}
}

type LoggerOptions struct {
	// Rotate the log file once on startup.
	Rotate bool
	// Stdout is turned off while the terminal UI owns the screen.
	Stdout bool
	// Route the stdlib default logger (gin, net/http) through logrus.
	WrapStdlibDefault bool
}

func (cfg *Config) CreateLogger(opts LoggerOptions) *logrus.Logger {
	var outputs []io.Writer

	if opts.Stdout {
		outputs = append(outputs, os.Stdout)
	}

	if cfg.Filename != "" {
		lumberjackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}

		if opts.Rotate {
			lumberjackLogger.Rotate()
		}

		outputs = append(outputs, lumberjackLogger)
	}

	var output io.Writer
	switch len(outputs) {
	case 0:
		output = io.Discard
	case 1:
		output = outputs[0]
	default:
		output = io.MultiWriter(outputs...)
	}

	logger := logrus.New()
	logger.SetFormatter(NewPlainFormatter())
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	logger.SetOutput(output)

	if opts.WrapStdlibDefault {
		log.SetOutput(logger.Writer())
	}

	return logger
}
