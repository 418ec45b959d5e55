package misc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func ReadFile(fileName string) ([]byte, error) {
	if fileName == "" {
		return nil, errors.New("no filename supplied")
	}
	fileBytes, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s - %w", fileName, err)
	}
	return fileBytes, nil
}

// EnsureDir creates path (and parents) when it does not exist yet
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("no directory supplied")
	}
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to stat %s - %w", path, err)
	}
	if err := os.MkdirAll(filepath.Clean(path), os.ModePerm); err != nil {
		return fmt.Errorf("unable to create folder %s - %w", path, err)
	}
	return nil
}

// OpenLogFile opens fileName for appending; an empty name yields a nil file so loggers only write to the console
func OpenLogFile(fileName string) (*os.File, error) {
	if fileName == "" {
		return nil, nil
	}
	f, err := os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file %s - %w", fileName, err)
	}
	return f, nil
}
