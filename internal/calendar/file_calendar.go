package calendar

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

// FileCalendar implements Calendar using a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	mu       sync.RWMutex
	days     []DayInfo
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
	}
}

// Load loads holidays from file.
// Format: one "YYYY-MM-DD [note]" per line, '#' starts a comment line.
// Example: 2025-01-01 New Year
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holidays file: %w", err)
	}
	defer file.Close()

	seen := make(map[civil.Date]bool)
	days := make([]DayInfo, 0)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		date, err := civil.ParseDate(fields[0])
		if err != nil {
			fc.logger.Warn("Failed to parse holiday date",
				zap.String("file", fc.filePath),
				zap.Int("line", lineNo),
				zap.String("date", fields[0]))
			continue
		}
		if seen[date] {
			continue
		}
		seen[date] = true

		days = append(days, DayInfo{
			Date: date,
			Type: DayTypeHoliday,
			Note: strings.Join(fields[1:], " "),
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holidays file: %w", err)
	}

	sortDays(days)

	fc.mu.Lock()
	fc.days = days
	fc.mu.Unlock()

	fc.logger.Info("Holidays file loaded",
		zap.String("file", fc.filePath),
		zap.Int("holidays", len(days)))

	return nil
}

// Holidays returns the loaded holidays between from and to inclusive
func (fc *FileCalendar) Holidays(_ context.Context, from, to civil.Date) ([]DayInfo, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if fc.days == nil {
		return nil, fmt.Errorf("holidays file not loaded: %s", fc.filePath)
	}
	return filterRange(fc.days, from, to), nil
}
