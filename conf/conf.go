// Package conf holds the options of an export run. Options come from
// command line flags, APEXTRACT_* environment variables and an optional
// YAML config file, in that order of precedence.
package conf

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rwcarlsen/apextract/logging"
)

const EnvPrefix = "APEXTRACT"

// Option keys. They double as flag names.
const (
	Aperture     = "aperture"
	OutputFolder = "output-folder"
	DryRun       = "dry-run"
	Log          = "log"
	LogPath      = "log-file"
	ExifTimes    = "exif-times"
	Open         = "open"
)

type Config struct {
	Aperture     string `mapstructure:"aperture"`
	OutputFolder string `mapstructure:"output-folder"`
	DryRun       bool   `mapstructure:"dry-run"`
	Log          bool   `mapstructure:"log"`
	LogPath      string `mapstructure:"log-file"`
	ExifTimes    bool   `mapstructure:"exif-times"`
	Open         bool   `mapstructure:"open"`
}

// Flags registers every option on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String(Aperture, "", "path to an Aperture photo library (required)")
	fs.String(OutputFolder, "", "folder to store the extracted album folders in (required)")
	fs.Bool(DryRun, false, "only print what would be done, do not create or copy anything")
	fs.Bool(Log, false, "also write all messages to a log file and echo errors to stderr")
	fs.String(LogPath, logging.DefaultFile, "log file used with --log")
	fs.Bool(ExifTimes, false, "set the modification time of copies to their EXIF capture time")
	fs.Bool(Open, false, "open the output folder when the export is done")
}

// New returns a viper instance reading flags from fs, the environment and
// configFile when it is not empty.
func New(fs *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Load decodes the options held by v.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports missing required options.
func (c *Config) Validate() error {
	var errs []error
	if c.Aperture == "" {
		errs = append(errs, errors.New("conf: --"+Aperture+" is required"))
	}
	if c.OutputFolder == "" {
		errs = append(errs, errors.New("conf: --"+OutputFolder+" is required"))
	}
	return errors.Join(errs...)
}

// LogFile returns the path of the log file.
func (c *Config) LogFile() string {
	if c.LogPath != "" {
		return c.LogPath
	}
	return logging.DefaultFile
}
