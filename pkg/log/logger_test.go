package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

// LoggerTestSuite tests the log package
type LoggerTestSuite struct {
	suite.Suite
	originalLogger zerolog.Logger
	testOutput     *bytes.Buffer
}

// SetupTest runs before each test
func (s *LoggerTestSuite) SetupTest() {
	s.originalLogger = Logger
	s.testOutput = &bytes.Buffer{}

	// Replace the global logger with one writing to our buffer
	Logger = zerolog.New(s.testOutput).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}

// TearDownTest runs after each test
func (s *LoggerTestSuite) TearDownTest() {
	Logger = s.originalLogger
}

// TestLogLevels tests that each level helper emits its message
func (s *LoggerTestSuite) TestLogLevels() {
	Debug().Msg("debug test")
	Info().Msg("info test")
	Warn().Msg("warn test")
	Error().Msg("error test")

	output := s.testOutput.String()
	s.Contains(output, "debug test")
	s.Contains(output, "info test")
	s.Contains(output, "warn test")
	s.Contains(output, "error test")
}

// TestLogWithFields tests logging with structured fields
func (s *LoggerTestSuite) TestLogWithFields() {
	Info().Str("upload_id", "abc-123").Int64("size", 42).Msg("part stored")

	output := s.testOutput.String()
	s.Contains(output, "part stored")
	s.Contains(output, "upload_id")
	s.Contains(output, "abc-123")
	s.Contains(output, "42")
}

// TestLoggerInitialization tests that the package logger is usable
func (s *LoggerTestSuite) TestLoggerInitialization() {
	level := s.originalLogger.GetLevel()
	s.True(level >= zerolog.DebugLevel && level <= zerolog.FatalLevel)
}

// TestSetDebugMode tests the debug level switch
func (s *LoggerTestSuite) TestSetDebugMode() {
	SetDebugMode()
	s.Equal(zerolog.DebugLevel, Logger.GetLevel())
}

// TestSuite runs the logger test suite
func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}
