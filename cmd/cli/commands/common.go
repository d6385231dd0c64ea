package commands

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/cleansight/cleansight/pkg/models"
)

// newLogger builds the CLI logger. Commands log to stderr so stdout stays
// clean for piped output.
func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// analysisConfig builds the engine policy from viper-bound settings. Unset
// fields fall back to the defaults via Normalized.
func analysisConfig() *models.AnalysisConfig {
	cfg := &models.AnalysisConfig{}
	if err := viper.UnmarshalKey("analysis", cfg); err != nil {
		return models.DefaultAnalysisConfig()
	}
	return cfg.Normalized()
}

// openOutput resolves "-" to stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeJSONOutput pretty-prints v as JSON to path ("-" for stdout).
func writeJSONOutput(path string, v interface{}) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
