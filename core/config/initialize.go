package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"

	"github.com/spf13/afero"
)

// Initialize scaffolds the configuration directory, creating any missing
// files and keeping existing ones, then loads the result.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	configFs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	if err := initializeFs(configFs, logger); err != nil {
		return nil, err
	}
	return loadFs(configFs)
}

func initializeFs(configFs afero.Fs, logger *log.Logger) error {
	for _, dir := range []string{DownloadDirName, LogsDirName} {
		logger.Printf("Creating %s/", dir)
		if err := configFs.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	files := []struct {
		name     string
		contents func() ([]byte, error)
	}{
		{ConfigurationName, func() ([]byte, error) { return defaultConfigData, nil }},
		{RootFSName, func() ([]byte, error) { return rootFsData, nil }},
		{PrivateKeyName, generateHostKey},
	}

	for _, file := range files {
		exists, err := afero.Exists(configFs, file.name)
		switch {
		case err != nil:
			return err
		case exists:
			logger.Printf("Keeping existing %s", file.name)
			continue
		}

		logger.Printf("Creating %s", file.name)
		contents, err := file.contents()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(configFs, file.name, contents, 0600); err != nil {
			return err
		}
	}

	return nil
}

// generateHostKey creates a PEM encoded RSA private key for the SSH host.
func generateHostKey() ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), nil
}
