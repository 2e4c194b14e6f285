package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// Config 日志配置
type Config struct {
	Debug    bool
	FilePath string // 为空时只输出到 stderr
}

// Setup 初始化全局 logger，只生效一次
func Setup(cfg Config) {
	once.Do(func() {
		ops := &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelInfo,
		}
		if cfg.Debug {
			ops.Level = slog.LevelDebug
		}

		var out io.Writer = os.Stderr
		if cfg.FilePath != "" {
			if f, err := openLogFile(cfg.FilePath); err == nil {
				out = io.MultiWriter(os.Stderr, f)
			}
		}

		instance = slog.New(slog.NewTextHandler(out, ops))
		slog.SetDefault(instance)
	})
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func get() *slog.Logger {
	if instance == nil {
		Setup(Config{})
	}
	return instance
}

func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }
func Debug(msg string, args ...any) { get().Debug(msg, args...) }
