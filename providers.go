package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/afittestide/sbrowser/storage"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/fx"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// snapshotsKept is how many tab snapshots stay in the database
const snapshotsKept = 10

// Options are the command line flags the providers depend on
type Options struct {
	Debug      bool
	ConfigPath string
}

// appOptions wires the interactive shell
func appOptions(opts Options) fx.Option {
	return fx.Options(
		fx.Supply(opts),
		fx.Provide(
			ProvidePaths,
			ProvideLogger,
			ProvideSettings,
			ProvideLogs,
			ProvideStorage,
			ProvideSnapshots,
			ProvideTheme,
			ProvideSessionManager,
			newNoticeQueue,
			newQuitSignal,
			ProvideRouter,
			ProvideTUIModel,
			StartTUI,
		),
	)
}

// ProvidePaths resolves the storage locations
func ProvidePaths(opts Options) (Paths, error) {
	return ResolvePaths(opts.ConfigPath)
}

// LoggerResult holds the configured logger
type LoggerResult struct {
	fx.Out
	Logger *slog.Logger
	Level  *slog.LevelVar
}

// ProvideLogger creates the rotating file logger and makes it the default
func ProvideLogger(opts Options, paths Paths) (LoggerResult, error) {
	logger, level, err := newLogger(paths.LogFile, opts.Debug)
	if err != nil {
		return LoggerResult{}, err
	}
	return LoggerResult{Logger: logger, Level: level}, nil
}

func newLogger(logPath string, debug bool) (*slog.Logger, *slog.LevelVar, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory %s: %w", filepath.Dir(logPath), err)
	}

	// Set up lumberjack for log rotation
	logFile := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	if debug {
		level.Set(slog.LevelDebug)
	}

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, level, nil
}

// parseLogLevel maps the log_level setting to a slog level
func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// SettingsParams holds parameters for settings loading
type SettingsParams struct {
	fx.In
	Options Options
	Paths   Paths
	Logger  *slog.Logger
	Level   *slog.LevelVar
}

// ProvideSettings loads the settings file. A failure stops startup.
func ProvideSettings(params SettingsParams) (SettingsSource, error) {
	params.Logger.Info("loading settings", "path", params.Paths.Settings)
	settings, err := NewFileSettings(params.Paths.Settings)
	if err != nil {
		params.Logger.Error("failed to load settings", "error", err)
		return nil, err
	}

	// --debug wins over the file
	if level, ok := parseLogLevel(settings.Settings().LogLevel); ok && !params.Options.Debug {
		params.Level.Set(level)
	}
	return settings, nil
}

// LogsResult holds the two persistent logs
type LogsResult struct {
	fx.Out
	History   *storage.LineLog `name:"history"`
	Bookmarks *storage.LineLog `name:"bookmarks"`
}

// ProvideLogs opens the history and bookmark logs, creating them if missing
func ProvideLogs(paths Paths, logger *slog.Logger) (LogsResult, error) {
	history := storage.NewLineLog(paths.History)
	bookmarks := storage.NewLineLog(paths.Bookmarks)
	for _, log := range []*storage.LineLog{history, bookmarks} {
		if err := log.EnsureExists(); err != nil {
			logger.Error("failed to create log", "path", log.Path(), "error", err)
			return LogsResult{}, fmt.Errorf("failed to create %s: %w", log.Path(), err)
		}
	}
	return LogsResult{History: history, Bookmarks: bookmarks}, nil
}

// StorageParams holds parameters for storage initialization
type StorageParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Paths     Paths
	Logger    *slog.Logger
}

// ProvideStorage opens the snapshot database
func ProvideStorage(params StorageParams) (*storage.DB, error) {
	params.Logger.Info("initializing storage", "database_path", params.Paths.Database)
	db, err := storage.InitDB(params.Paths.Database)
	if err != nil {
		params.Logger.Error("failed to initialize storage", "error", err)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if stats, err := db.Stats(); err == nil {
		params.Logger.Debug("storage ready", "snapshots", stats["snapshots"], "snapshot_tabs", stats["snapshot_tabs"])
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("closing storage")
			if err := db.Close(); err != nil {
				params.Logger.Error("failed to close storage", "error", err)
				return err
			}
			return nil
		},
	})
	return db, nil
}

// SnapshotParams holds parameters for the snapshot worker
type SnapshotParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	DB        *storage.DB
	Settings  SettingsSource
	Logger    *slog.Logger
}

// ProvideSnapshots starts the snapshot worker when restore_session is set.
// It returns nil otherwise.
func ProvideSnapshots(params SnapshotParams) *SnapshotWorker {
	if !params.Settings.Settings().RestoreSession {
		return nil
	}
	worker, err := NewSnapshotWorker(params.DB, snapshotsKept)
	if err != nil {
		params.Logger.Warn("tab snapshots disabled", "error", err)
		return nil
	}
	// Registered after the database hook, so it stops first
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			worker.Close()
			return nil
		},
	})
	return worker
}

// ProvideTheme builds the theme from the settings colors
func ProvideTheme(settings SettingsSource) *Theme {
	return NewTheme(settings.Settings())
}

// ProvideSessionManager opens the first tab at home, or restores the last
// saved tabs.
func ProvideSessionManager(settings SettingsSource, paths Paths, snapshots *SnapshotWorker) *SessionManager {
	tabs := NewSessionManager(settings.Settings().HomeLocation(paths.ConfigDir), nil)
	if snapshots != nil {
		restoreTabs(tabs, snapshots)
	}
	return tabs
}

// RouterParams holds parameters for router creation
type RouterParams struct {
	fx.In
	Tabs      *SessionManager
	History   *storage.LineLog `name:"history"`
	Bookmarks *storage.LineLog `name:"bookmarks"`
	Settings  SettingsSource
	Paths     Paths
	Notices   *noticeQueue
	Host      *quitSignal
	Snapshots *SnapshotWorker
}

// ProvideRouter creates the command router
func ProvideRouter(params RouterParams) *Router {
	cfg := RouterConfig{
		Tabs:      params.Tabs,
		History:   params.History,
		Bookmarks: params.Bookmarks,
		Settings:  params.Settings,
		ConfigDir: params.Paths.ConfigDir,
		Notifier:  params.Notices,
		Clipboard: systemClipboard{},
		Host:      params.Host,
	}
	// A nil worker must stay a nil interface
	if params.Snapshots != nil {
		cfg.Snapshots = params.Snapshots
	}
	return NewRouter(cfg)
}

// TUIModelParams holds parameters for TUI model creation
type TUIModelParams struct {
	fx.In
	Router  *Router
	Notices *noticeQueue
	Host    *quitSignal
	Theme   *Theme
}

// ProvideTUIModel creates the TUI model
func ProvideTUIModel(params TUIModelParams) *TUIModel {
	return NewTUIModel(params.Router, params.Notices, params.Host, params.Theme)
}

// StartTUI creates the TUI program
func StartTUI(model *TUIModel, logger *slog.Logger) *tea.Program {
	logger.Info("creating TUI program")
	return tea.NewProgram(model, tea.WithAltScreen())
}
