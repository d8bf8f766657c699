// Package config loads the YAML or JSON file describing the server, its database,
// logging, sessions and forms.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/autoforms/autoforms/logger"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/session"
	"github.com/autoforms/autoforms/store"
	"github.com/autoforms/autoforms/utils"
)

// LogLevelEnv overrides log.level when set
const LogLevelEnv = "AUTOFORMS_LOG_LEVEL"

// Defaults
const (
	DefaultAddr          = ":7000"
	DefaultDriver        = "sqlite"
	DefaultDSN           = "autoforms.db"
	DefaultLogBackend    = "logrus"
	DefaultLogLevel      = "info"
	DefaultSlowThreshold = 200 * time.Millisecond
	DefaultSession       = "cookie"
)

// ErrUnknownFormat the file extension is neither yaml nor json
var ErrUnknownFormat = errors.New("config: unknown file format")

// File whole configuration file
type File struct {
	Server   Server   `json:"server" yaml:"server"`
	Database Database `json:"database" yaml:"database"`
	Log      Log      `json:"log" yaml:"log"`
	Session  Session  `json:"session" yaml:"session"`
	Forms    []Form   `json:"forms" yaml:"forms"`
}

type Server struct {
	Addr      string `json:"addr" yaml:"addr"`
	StaticDir string `json:"staticDir" yaml:"staticDir"`
	Templates string `json:"templates" yaml:"templates"`
	UploadDir string `json:"uploadDir" yaml:"uploadDir"`
}

type Database struct {
	Driver       string `json:"driver" yaml:"driver"`
	DSN          string `json:"dsn" yaml:"dsn"`
	MaxOpenConns int    `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns int    `json:"maxIdleConns" yaml:"maxIdleConns"`
}

type Log struct {
	Backend       string   `json:"backend" yaml:"backend"`
	Level         string   `json:"level" yaml:"level"`
	SlowThreshold Duration `json:"slowThreshold" yaml:"slowThreshold"`
	Colorful      bool     `json:"colorful" yaml:"colorful"`
}

type Session struct {
	Backend    string   `json:"backend" yaml:"backend"`
	Secret     string   `json:"secret" yaml:"secret"`
	MaxAge     Duration `json:"maxAge" yaml:"maxAge"`
	CookieName string   `json:"cookieName" yaml:"cookieName"`
	Secure     bool     `json:"secure" yaml:"secure"`
}

// Load reads path, the extension picks the decoder
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	file, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return file, nil
}

// Parse decodes data as yaml or json then fills defaults and validates.
// Unknown keys are rejected.
func Parse(data []byte, format string) (*File, error) {
	file := &File{}
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	file.defaults()
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

func (f *File) defaults() {
	if f.Server.Addr == "" {
		f.Server.Addr = DefaultAddr
	}
	if f.Database.Driver == "" {
		f.Database.Driver = DefaultDriver
	}
	if f.Database.DSN == "" && strings.EqualFold(f.Database.Driver, "sqlite") {
		f.Database.DSN = DefaultDSN
	}
	if f.Log.Backend == "" {
		f.Log.Backend = DefaultLogBackend
	}
	if level := os.Getenv(LogLevelEnv); level != "" {
		f.Log.Level = level
	}
	if f.Log.Level == "" {
		f.Log.Level = DefaultLogLevel
	}
	if f.Log.SlowThreshold == 0 {
		f.Log.SlowThreshold = Duration(DefaultSlowThreshold)
	}
	if f.Session.Backend == "" {
		f.Session.Backend = DefaultSession
	}
	if f.Session.MaxAge == 0 {
		f.Session.MaxAge = Duration(session.DefaultMaxAge)
	}
	if f.Session.CookieName == "" {
		f.Session.CookieName = session.DefaultCookieName
	}
}

// Validate checks every section, form errors are schema ConfigErrors
func (f *File) Validate() error {
	if !containsFold(store.Drivers, f.Database.Driver) {
		return fmt.Errorf("database.driver %q must be one of %s", f.Database.Driver, strings.Join(store.Drivers, ", "))
	}
	if f.Database.DSN == "" && !strings.EqualFold(f.Database.Driver, "memory") {
		return fmt.Errorf("database.dsn is required for driver %s", f.Database.Driver)
	}

	if !containsFold(logger.Backends, f.Log.Backend) {
		return fmt.Errorf("log.backend %q must be one of %s", f.Log.Backend, strings.Join(logger.Backends, ", "))
	}
	if _, err := logger.ParseLevel(f.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if !containsFold(session.Backends, f.Session.Backend) {
		return fmt.Errorf("session.backend %q must be one of %s", f.Session.Backend, strings.Join(session.Backends, ", "))
	}
	if strings.EqualFold(f.Session.Backend, "cookie") && f.Session.Secret == "" {
		return fmt.Errorf("session.secret is required for cookie sessions")
	}

	paths := map[string]int{}
	for idx := range f.Forms {
		form, err := f.Forms[idx].Schema()
		if err != nil {
			return fmt.Errorf("forms[%d]: %w", idx, err)
		}
		if prev, ok := paths[form.Path]; ok {
			return fmt.Errorf("forms[%d]: %w", idx, &schema.ConfigError{
				Kind:    schema.InvalidPath,
				Form:    form.TableName,
				Message: fmt.Sprintf("path %q already used by forms[%d]", form.Path, prev),
			})
		}
		paths[form.Path] = idx
	}
	return nil
}

// Logger builds the configured logger
func (f *File) Logger() (logger.Interface, error) {
	level, err := logger.ParseLevel(f.Log.Level)
	if err != nil {
		return nil, err
	}
	return logger.New(f.Log.Backend, logger.Config{
		LogLevel:                  level,
		SlowThreshold:             time.Duration(f.Log.SlowThreshold),
		IgnoreRecordNotFoundError: true,
		Colorful:                  f.Log.Colorful,
	})
}

// Store store config for the database section
func (f *File) Store(log logger.Interface) store.Config {
	return store.Config{
		Driver:       f.Database.Driver,
		DSN:          f.Database.DSN,
		MaxOpenConns: f.Database.MaxOpenConns,
		MaxIdleConns: f.Database.MaxIdleConns,
		Logger:       log,
	}
}

// Sessions builds the configured session store
func (f *File) Sessions() (session.Store, error) {
	return session.New(f.Session.Backend, session.Options{
		CookieName: f.Session.CookieName,
		MaxAge:     time.Duration(f.Session.MaxAge),
		Secret:     []byte(f.Session.Secret),
		Secure:     f.Session.Secure,
	})
}

// Schemas every form, validated
func (f *File) Schemas() ([]*schema.Form, error) {
	forms := make([]*schema.Form, 0, len(f.Forms))
	for idx := range f.Forms {
		form, err := f.Forms[idx].Schema()
		if err != nil {
			return nil, fmt.Errorf("forms[%d]: %w", idx, err)
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func containsFold(list []string, value string) bool {
	return utils.Contains(list, strings.ToLower(value))
}
