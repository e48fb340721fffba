package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "mealplan"
	dbFileName     = "mealplan.db"
	configFileName = "config.yaml"
	slotDirName    = "slots"
	backupDirName  = "backups"
)

// BaseDir is the per-user directory that holds config and local data.
// MEALPLAN_HOME overrides it.
func BaseDir() (string, error) {
	if home := os.Getenv("MEALPLAN_HOME"); home != "" {
		return home, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func DefaultDBPath() (string, error) {
	return inBaseDir(dbFileName)
}

func DefaultConfigPath() (string, error) {
	return inBaseDir(configFileName)
}

func DefaultSlotDir() (string, error) {
	return inBaseDir(slotDirName)
}

func DefaultBackupDir() (string, error) {
	return inBaseDir(backupDirName)
}

func inBaseDir(name string) (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, name), nil
}

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
