package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/vacation-calc/internal/calendar"
	"github.com/username/vacation-calc/internal/config"
	"github.com/username/vacation-calc/internal/planner"
	"github.com/username/vacation-calc/internal/vacation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vacation-calc",
		Short: "Vacation date calculator",
		Long: "Compute vacation duration, end date or start date from the other two, " +
			"counting calendar days inclusively and skipping public holidays",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else {
				logger = initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ./config.yaml, $HOME/.vacation-calc, /etc/vacation-calc)")

	rootCmd.AddCommand(durationCmd())
	rootCmd.AddCommand(endCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// initializePlanner wires the engine and every configured holiday calendar
func initializePlanner(cfg *config.Config, holidaysFile string) (*planner.Planner, error) {
	engine := vacation.New(
		vacation.WithRestDay(cfg.Rules.GetRestDay()),
		vacation.WithMaxWalkDays(cfg.Rules.MaxWalkDays),
	)

	var calendars []calendar.Calendar

	if len(cfg.Calendar.Holidays) > 0 {
		set := vacation.ParseHolidayList(cfg.Calendar.Holidays)
		calendars = append(calendars, calendar.NewStaticCalendar(set.Dates(), ""))
	}

	if cfg.Calendar.HolidaysFile != "" {
		fc := calendar.NewFileCalendar(cfg.Calendar.HolidaysFile, logger)
		if err := fc.Load(); err != nil {
			logger.Warn("Failed to load configured holidays file, skipping",
				zap.String("file", cfg.Calendar.HolidaysFile),
				zap.Error(err))
		} else {
			calendars = append(calendars, fc)
		}
	}

	if holidaysFile != "" {
		fc := calendar.NewFileCalendar(holidaysFile, logger)
		if err := fc.Load(); err != nil {
			return nil, err
		}
		calendars = append(calendars, fc)
	}

	if cfg.Calendar.Remote == "isdayoff" {
		logger.Info("Using isdayoff.ru calendar API",
			zap.String("country", cfg.Calendar.Country))
		calendars = append(calendars, calendar.NewIsDayOffCalendar(
			cfg.Calendar.APIURL,
			cfg.Calendar.Country,
			cfg.Calendar.FallbackURL,
			cfg.Calendar.GetCacheTTL(),
			logger,
		))
	}

	if len(calendars) == 0 {
		return planner.NewPlanner(engine, nil, logger), nil
	}
	composite := calendar.NewCompositeCalendar(logger, calendars...)
	logger.Debug("Holiday calendars configured", zap.Int("sources", composite.Len()))
	return planner.NewPlanner(engine, composite, logger), nil
}

func initLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return l
}

func initFileLogger(logFile string, level string) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core)
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	return zapLevel
}
