// Package keyring keeps the PostgreSQL connection string used by snapshot
// export in the OS keyring, so it never has to live in the config file.
package keyring

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/daydash/internal/constants"
)

var (
	// ErrNotFound is returned when no export DSN is stored in the keyring
	ErrNotFound = errors.New("export connection string not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrInvalidDSN is returned for strings that are not postgres:// URLs
	ErrInvalidDSN = errors.New("export connection string must be a postgres:// URL")
)

// GetExportDSN returns the stored connection string.
func GetExportDSN() (string, error) {
	dsn, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return dsn, nil
}

// SetExportDSN validates and stores dsn, replacing any previous value.
func SetExportDSN(dsn string) error {
	if err := ValidateDSN(dsn); err != nil {
		return err
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, dsn); err != nil {
		return fmt.Errorf("failed to store export connection string: %w", err)
	}
	return nil
}

func DeleteExportDSN() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete export connection string: %w", err)
	}
	return nil
}

// ResolveDSN picks the first non-empty of explicit and configured, falling
// back to the keyring.
func ResolveDSN(explicit, configured string) (string, error) {
	for _, dsn := range []string{explicit, configured} {
		if dsn != "" {
			return dsn, ValidateDSN(dsn)
		}
	}
	return GetExportDSN()
}

func ValidateDSN(dsn string) error {
	if dsn == "" {
		return errors.New("export connection string cannot be empty")
	}
	u, err := url.Parse(dsn)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") || u.Host == "" {
		return ErrInvalidDSN
	}
	return nil
}

// Redact hides the password of dsn for display and logging.
func Redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
