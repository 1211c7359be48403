package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/ios7jbpro/jellyfin-mass-dl/redact"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Library    Library    `yaml:"library"`
	Log        Log        `yaml:"log"`
	Downloader Downloader `yaml:"downloader"`
	Lyrics     Lyrics     `yaml:"lyrics"`
}

func (c *Config) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Dict("server", c.Server.ToDict()).
		Dict("library", c.Library.ToDict()).
		Dict("log", c.Log.ToDict()).
		Dict("downloader", c.Downloader.ToDict()).
		Dict("lyrics", c.Lyrics.ToDict())
}

func (c *Config) setDefaults() {
	c.Log.setDefaults()
	c.Downloader.setDefaults()
	c.Lyrics.setDefaults()
}

// Validate checks the whole configuration, including the interactive
// fields that Load leaves empty for the prompts to fill.
func (c *Config) Validate() error {
	if err := c.Server.validate(); nil != err {
		return fmt.Errorf("server config validation failed: %v", err)
	}

	if err := c.Library.validate(); nil != err {
		return fmt.Errorf("library config validation failed: %v", err)
	}

	if err := c.Log.validate(); nil != err {
		return fmt.Errorf("log config validation failed: %v", err)
	}

	if err := c.Downloader.validate(); nil != err {
		return fmt.Errorf("downloader config validation failed: %v", err)
	}

	if err := c.Lyrics.validate(); nil != err {
		return fmt.Errorf("lyrics config validation failed: %v", err)
	}

	return nil
}

type Server struct {
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	Password    string `yaml:"-"`
	InsecureTLS bool   `yaml:"insecure_tls"`
}

func (c *Server) ToDict() *zerolog.Event {
	return zerolog.
		Dict().
		Str("url", c.URL).
		Str("username", c.Username).
		Str("password", redact.String(c.Password)).
		Bool("insecure_tls", c.InsecureTLS)
}

func (c *Server) validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(c.URL)
	if nil != err {
		return fmt.Errorf("url is not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got: %s", u.Scheme)
	}

	if c.Username == "" {
		return errors.New("username is required")
	}

	if c.Password == "" {
		return errors.New("password is required, set it in the prompt or via the JELLYFIN_PASSWORD environment variable")
	}

	return nil
}

type Library struct {
	Dir string `yaml:"dir"`
}

func (c *Library) ToDict() *zerolog.Event {
	return zerolog.
		Dict().
		Str("dir", c.Dir)
}

func (c *Library) validate() error {
	if c.Dir == "" {
		return errors.New("dir is required")
	}

	return nil
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Log) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("level", c.Level).
		Str("format", c.Format)
}

func (c *Log) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}

	if c.Format == "" {
		c.Format = "pretty"
	}
}

func (c *Log) validate() error {
	if !slices.Contains([]string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}, c.Level) {
		return fmt.Errorf(
			"level must be one of: trace, debug, info, warn, error, fatal, panic, got: %s",
			c.Level,
		)
	}

	if !slices.Contains([]string{"json", "pretty"}, c.Format) {
		return fmt.Errorf("format must be 'json' or 'pretty', got: %s", c.Format)
	}

	return nil
}

type Downloader struct {
	Timeouts DownloaderTimeouts `yaml:"timeouts"`
}

func (c *Downloader) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Dict("timeouts", c.Timeouts.ToDict())
}

func (c *Downloader) setDefaults() {
	c.Timeouts.setDefaults()
}

func (c *Downloader) validate() error {
	if err := c.Timeouts.validate(); nil != err {
		return fmt.Errorf("timeouts config validation failed: %v", err)
	}

	return nil
}

// DownloaderTimeouts are per-request timeouts in seconds. DownloadFile
// defaults to 0 (no timeout): a whole-request deadline would kill long
// transfers of large tracks.
type DownloaderTimeouts struct {
	Login         int `yaml:"login"`
	ListItems     int `yaml:"list_items"`
	GetItem       int `yaml:"get_item"`
	DownloadFile  int `yaml:"download_file"`
	DownloadImage int `yaml:"download_image"`
}

func (c *DownloaderTimeouts) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Int("login", c.Login).
		Int("list_items", c.ListItems).
		Int("get_item", c.GetItem).
		Int("download_file", c.DownloadFile).
		Int("download_image", c.DownloadImage)
}

func (c *DownloaderTimeouts) setDefaults() {
	if c.Login == 0 {
		c.Login = 15
	}

	if c.ListItems == 0 {
		c.ListItems = 60
	}

	if c.GetItem == 0 {
		c.GetItem = 15
	}

	if c.DownloadImage == 0 {
		c.DownloadImage = 30
	}
}

func (c *DownloaderTimeouts) validate() error {
	if c.Login < 0 {
		return errors.New("login must be greater than 0")
	}

	if c.ListItems < 0 {
		return errors.New("list_items must be greater than 0")
	}

	if c.GetItem < 0 {
		return errors.New("get_item must be greater than 0")
	}

	if c.DownloadFile < 0 {
		return errors.New("download_file must be greater than 0")
	}

	if c.DownloadImage < 0 {
		return errors.New("download_image must be greater than 0")
	}

	return nil
}

type Lyrics struct {
	Timeout int `yaml:"timeout"`
}

func (c *Lyrics) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Int("timeout", c.Timeout)
}

func (c *Lyrics) setDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10
	}
}

func (c *Lyrics) validate() error {
	if c.Timeout < 0 {
		return errors.New("timeout must be greater than 0")
	}

	return nil
}

// Load reads the YAML config file and environment. A missing file is
// only an error when the operator named one explicitly; without a file
// the interactive prompts collect the server fields.
func Load(filename string) (*Config, error) {
	var conf Config

	data, err := os.ReadFile(lo.Ternary(len(filename) > 0, filename, "config.yaml"))
	if nil != err {
		if len(filename) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %v", filename, err)
		}
	} else if err := yaml.Unmarshal(data, &conf); nil != err {
		return nil, fmt.Errorf("failed to parse config file %s: %v", filename, err)
	}

	conf.Server.Password = os.Getenv("JELLYFIN_PASSWORD")
	conf.Server.URL = strings.TrimRight(conf.Server.URL, "/")
	conf.setDefaults()

	return &conf, nil
}
