package providers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"sbd/internal/structures"
)

type TypeEnum int

// Log routing: app and poll lines go to the application log, request
// lines to the access log.
const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypePoll
)

func (t TypeEnum) String() string {
	switch t {
	case TypeGet:
		return "get"
	case TypePost:
		return "post"
	case TypePoll:
		return "poll"
	default:
		return "app"
	}
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	app     zerolog.Logger
	access  zerolog.Logger
	handles []*os.File
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	provider := &LogProvider{}
	mode := os.FileMode(conf.Logger.Mode)

	appFile, err := provider.openLogFile(conf.Logger.Dir, "app.log", mode)
	if err != nil {
		return nil, err
	}
	accessFile, err := provider.openLogFile(conf.Logger.Dir, "access.log", mode)
	if err != nil {
		provider.Close()
		return nil, err
	}

	provider.app = newLogger(appFile, level, conf.Debug)
	provider.access = newLogger(accessFile, level, conf.Debug)
	return provider, nil
}

func newLogger(file *os.File, level zerolog.Level, debug bool) zerolog.Logger {
	var out zerolog.LevelWriter = zerolog.MultiLevelWriter(file)
	if debug {
		out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func (lp *LogProvider) openLogFile(dir, name string, mode os.FileMode) (*os.File, error) {
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", name, err)
	}
	lp.handles = append(lp.handles, file)
	return file, nil
}

func (lp *LogProvider) pick(t TypeEnum) *zerolog.Logger {
	if t == TypeGet || t == TypePost {
		return &lp.access
	}
	return &lp.app
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.pick(t).Error().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.pick(t).Warn().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.pick(t).Debug().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.pick(t).Info().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.pick(t).Fatal().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, file := range lp.handles {
		_ = file.Close()
	}
}
