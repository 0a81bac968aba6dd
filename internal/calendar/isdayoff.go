package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/username/vacation-calc/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
	defaultCountry     = "ru"
	maxMonthsPerQuery  = 60
)

// ErrRangeTooLong is returned when a query spans more months than one lookup may fetch
var ErrRangeTooLong = errors.New("range too long for the remote calendar")

// IsDayOffCalendar implements Calendar using the isdayoff.ru API
// with an xmlcalendar.ru fallback
type IsDayOffCalendar struct {
	httpClient   *http.Client
	logger       *zap.Logger
	baseURL      string
	country      string
	cache        map[monthKey]*cachedMonth
	cacheMu      sync.RWMutex
	cacheTTL     time.Duration
	fallbackURL  string
	fallbackData map[int]*xmlCalendarYear // year → calendar data
}

type monthKey struct {
	year  int
	month time.Month
}

type cachedMonth struct {
	days      []DayInfo
	fetchedAt time.Time
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year   int                `json:"year"`
	Months []xmlCalendarMonth `json:"months"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar instance.
// Empty baseURL and country fall back to isdayoff.ru defaults; an empty
// fallbackURL disables the fallback. fallbackURL may contain a {year} placeholder.
func NewIsDayOffCalendar(baseURL, country, fallbackURL string, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffCalendar {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	if country == "" {
		country = defaultCountry
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &IsDayOffCalendar{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:       logger,
		baseURL:      strings.TrimRight(baseURL, "/"),
		country:      country,
		cache:        make(map[monthKey]*cachedMonth),
		cacheTTL:     cacheTTL,
		fallbackURL:  fallbackURL,
		fallbackData: make(map[int]*xmlCalendarYear),
	}
}

// Holidays returns weekday public holidays between from and to inclusive.
// Non-working Saturdays and Sundays are weekends and are not reported.
func (c *IsDayOffCalendar) Holidays(ctx context.Context, from, to civil.Date) ([]DayInfo, error) {
	if to.Before(from) {
		return nil, nil
	}

	months := (to.Year-from.Year)*12 + int(to.Month-from.Month) + 1
	if months > maxMonthsPerQuery {
		return nil, fmt.Errorf("%w: %s..%s spans %d months, limit is %d", ErrRangeTooLong, from, to, months, maxMonthsPerQuery)
	}

	var result []DayInfo
	year, month := from.Year, from.Month
	for i := 0; i < months; i++ {
		days, err := c.getMonth(ctx, year, month)
		if err != nil {
			return nil, err
		}
		for _, day := range filterRange(days, from, to) {
			if day.Type == DayTypeHoliday {
				result = append(result, day)
			}
		}

		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return result, nil
}

// getMonth returns all days of a month from cache, the API or the fallback
func (c *IsDayOffCalendar) getMonth(ctx context.Context, year int, month time.Month) ([]DayInfo, error) {
	key := monthKey{year: year, month: month}

	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok {
		if time.Since(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached month",
				zap.Int("year", year),
				zap.Int("month", int(month)))
			return cached.days, nil
		}
	}
	c.cacheMu.RUnlock()

	days, err := c.fetchMonthFromAPI(ctx, year, month)
	if err != nil {
		if c.fallbackURL == "" {
			return nil, err
		}

		c.logger.Warn("Failed to fetch month from API, trying fallback",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))

		var fallbackErr error
		days, fallbackErr = c.fetchMonthFromFallback(ctx, year, month)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}
	}

	c.cacheMu.Lock()
	c.cache[key] = &cachedMonth{
		days:      days,
		fetchedAt: time.Now(),
	}
	c.cacheMu.Unlock()

	return days, nil
}

// fetchMonthFromAPI fetches entire month from isdayoff.ru bulk API
func (c *IsDayOffCalendar) fetchMonthFromAPI(ctx context.Context, year int, month time.Month) ([]DayInfo, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&month=11&cc=ru&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&cc=%s&pre=1",
		c.baseURL, year, int(month), c.country)

	c.logger.Debug("Fetching month from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	days, err := parseBulkResponse(year, month, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Month fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("days", len(days)))

	return days, nil
}

func (c *IsDayOffCalendar) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day
func parseBulkResponse(year int, month time.Month, data string) ([]DayInfo, error) {
	daysInMonth := dateutil.DaysInMonth(year, month)

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	days := make([]DayInfo, 0, daysInMonth)
	for i, code := range data {
		date := civil.Date{Year: year, Month: month, Day: i + 1}

		var dayType DayType
		switch code {
		case '0':
			dayType = DayTypeWorkday
		case '1':
			dayType = nonWorkingType(date)
		case '2':
			dayType = DayTypeShortened
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}

		days = append(days, DayInfo{Date: date, Type: dayType})
	}

	return days, nil
}

func nonWorkingType(date civil.Date) DayType {
	if dateutil.IsWeekend(date) {
		return DayTypeWeekend
	}
	return DayTypeHoliday
}

// fetchMonthFromFallback fetches month from xmlcalendar.ru
func (c *IsDayOffCalendar) fetchMonthFromFallback(ctx context.Context, year int, month time.Month) ([]DayInfo, error) {
	c.cacheMu.RLock()
	yearData, exists := c.fallbackData[year]
	c.cacheMu.RUnlock()

	if !exists {
		var err error
		yearData, err = c.downloadFallbackYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		c.cacheMu.Lock()
		c.fallbackData[year] = yearData
		c.cacheMu.Unlock()
	}

	for i := range yearData.Months {
		if yearData.Months[i].Month == int(month) {
			return c.parseXMLCalendarMonth(year, month, &yearData.Months[i]), nil
		}
	}

	return nil, fmt.Errorf("month %d not found in fallback data for year %d", month, year)
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (c *IsDayOffCalendar) downloadFallbackYear(ctx context.Context, year int) (*xmlCalendarYear, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var yearData xmlCalendarYear
	if err := json.Unmarshal(body, &yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}
	if len(yearData.Months) == 0 {
		return nil, errors.New("fallback data has no months")
	}

	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day, others = weekends/holidays
func (c *IsDayOffCalendar) parseXMLCalendarMonth(year int, month time.Month, xmlMonth *xmlCalendarMonth) []DayInfo {
	daysInMonth := dateutil.DaysInMonth(year, month)

	markers := make(map[int]rune) // day → marker (* or + or 0)
	for _, part := range strings.Split(xmlMonth.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		marker := rune(0)
		dayStr := part
		if strings.HasSuffix(part, "*") {
			marker = '*'
			dayStr = strings.TrimSuffix(part, "*")
		} else if strings.HasSuffix(part, "+") {
			marker = '+'
			dayStr = strings.TrimSuffix(part, "+")
		}

		day, err := strconv.Atoi(dayStr)
		if err != nil || day < 1 || day > daysInMonth {
			c.logger.Warn("Failed to parse day number",
				zap.String("part", part))
			continue
		}
		markers[day] = marker
	}

	days := make([]DayInfo, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := civil.Date{Year: year, Month: month, Day: day}

		dayType := DayTypeWorkday
		if marker, ok := markers[day]; ok {
			if marker == '*' {
				dayType = DayTypeShortened
			} else {
				dayType = nonWorkingType(date)
			}
		}

		days = append(days, DayInfo{Date: date, Type: dayType})
	}

	return days
}
