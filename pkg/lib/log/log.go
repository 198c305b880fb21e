// Package log 提供 MMST 统一日志接口
//
// 基于 Go 标准库 log/slog 封装，按组件（子系统）控制日志级别。
//
// 使用示例:
//
//	var logger = log.Logger("core/topology")
//
//	func foo() {
//	    logger.Info("建立近邻连接", "peer", id.ShortString())
//	}
//
// 环境变量配置:
//
//	# 所有组件为 info，core/topology 为 debug
//	MMST_LOG_LEVEL=core/topology=debug,info
//
//	# 使用 JSON 格式输出
//	MMST_LOG_FORMAT=json
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// 环境变量名
const (
	EnvLogLevel  = "MMST_LOG_LEVEL"
	EnvLogFormat = "MMST_LOG_FORMAT"
)

// ============================================================================
//                              级别配置
// ============================================================================

// levelTable 组件级别表
type levelTable struct {
	mu         sync.RWMutex
	defaultLvl slog.Level
	components map[string]slog.Level
}

var levels = &levelTable{
	defaultLvl: slog.LevelInfo,
	components: make(map[string]slog.Level),
}

func (t *levelTable) levelFor(component string) slog.Level {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if lvl, ok := t.components[component]; ok {
		return lvl
	}
	return t.defaultLvl
}

// parseLevelConfig 解析日志级别配置字符串
// 格式: component=level,component=level,defaultLevel
func (t *levelTable) parseLevelConfig(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			if lvl, ok := ParseLevel(strings.TrimSpace(v)); ok {
				t.components[strings.TrimSpace(k)] = lvl
			}
			continue
		}
		if lvl, ok := ParseLevel(part); ok {
			t.defaultLvl = lvl
		}
	}
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// SetLevel 设置默认日志级别（未单独配置的组件）
func SetLevel(level slog.Level) {
	levels.mu.Lock()
	levels.defaultLvl = level
	levels.mu.Unlock()
}

// SetComponentLevel 设置指定组件的日志级别
//
// 这允许在运行时调整日志级别，无需重启。
func SetComponentLevel(component string, level slog.Level) {
	levels.mu.Lock()
	levels.components[component] = level
	levels.mu.Unlock()
}

// ============================================================================
//                              输出配置
// ============================================================================

// SetDefault 设置默认 logger
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// SetOutput 设置日志输出目标
//
// 重新创建默认 logger，将输出重定向到指定的 Writer。组件级别过滤仍然生效。
func SetOutput(w io.Writer) {
	slog.SetDefault(newLogger(w, os.Getenv(EnvLogFormat)))
}

// Discard 返回一个丢弃所有日志的 Logger（用于测试）
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLogger(w io.Writer, format string) *slog.Logger {
	// handler 放行全部级别，由 LazyLogger 按组件过滤
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从 slog.Default() 获取最新的 handler，
// 支持在运行时动态切换日志输出目标。
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if level < levels.levelFor(l.component) {
		return
	}
	slog.Default().With("component", l.component).Log(ctx, level, msg, args...)
}

// Enabled 检查组件是否输出指定级别
func (l *LazyLogger) Enabled(level slog.Level) bool {
	return level >= levels.levelFor(l.component)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args...)
}

// DebugContext 带 context 的 Debug 日志
func (l *LazyLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

// WarnContext 带 context 的 Warn 日志
func (l *LazyLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

// ============================================================================
//                              初始化
// ============================================================================

func init() {
	if s := os.Getenv(EnvLogLevel); s != "" {
		levels.parseLevelConfig(s)
	}
	slog.SetDefault(newLogger(os.Stderr, os.Getenv(EnvLogFormat)))
}
