package storage

import (
	"os"
	"regexp"
	"strings"

	"stock-digest/src/config"
	"stock-digest/src/logger"
)

var symbolsLine = regexp.MustCompile(`(?m)^STOCK_SYMBOLS=.*$`)

// -----------------------------------------------------------------------------

// EnvFileStore is the degraded-mode backend: the watchlist lives as a
// STOCK_SYMBOLS=A,B,C line in the local .env file. Other lines in the file
// are preserved on save.
type EnvFileStore struct {
	Path   string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewEnvFileStore(path string, log *logger.Logger) *EnvFileStore {
	return &EnvFileStore{Path: path, Logger: log}
}

// -----------------------------------------------------------------------------

func (e *EnvFileStore) Name() string {
	return "envfile"
}

// -----------------------------------------------------------------------------

func (e *EnvFileStore) LoadSymbols() ([]string, bool, error) {
	data, err := os.ReadFile(e.Path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	match := symbolsLine.FindString(string(data))
	if match == "" {
		return nil, false, nil
	}

	raw := strings.TrimPrefix(match, "STOCK_SYMBOLS=")
	return config.ParseSymbolList(raw), true, nil
}

// -----------------------------------------------------------------------------

func (e *EnvFileStore) SaveSymbols(symbols []string) error {
	var content string
	if data, err := os.ReadFile(e.Path); err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return err
	}

	line := "STOCK_SYMBOLS=" + strings.Join(symbols, ",")

	if symbolsLine.MatchString(content) {
		content = symbolsLine.ReplaceAllString(content, line)
	} else {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += line + "\n"
	}

	if err := os.WriteFile(e.Path, []byte(content), 0o600); err != nil {
		return err
	}

	e.Logger.Debug("Stock symbols saved to %s", e.Path)
	return nil
}
