package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Sample is the configuration written by `logbrowser init`.
func Sample() File {
	return File{
		DateFormat:         "yyyy-MM-dd",
		DownloadBaseFolder: "./downloads/",
		DownloadExtension:  ".log",
		Apps: []AppFile{
			{
				Name: "Payments",
				Logs: []LogFile{
					{
						Type:        "LOCAL",
						BaseDir:     "/var/log/payments/",
						Compression: "gz",
						Files:       []string{"payments_{date}.log", "payments.log"},
					},
					{
						Type:     "HTTPS",
						Host:     "logs.example.com",
						Alias:    "web1",
						User:     "ops",
						Password: "${PAYMENTS_LOG_PASSWORD}",
						BaseDir:  "/payments/",
						Files:    []string{"access_{date}.log"},
					},
					{
						Type:     "SFTP",
						Host:     "batch.example.com:22",
						Alias:    "batch",
						User:     "ops",
						Password: "${PAYMENTS_SFTP_PASSWORD}",
						BaseDir:  "/opt/batch/logs/",
						Files:    []string{"batch.log.{date}"},
					},
				},
			},
		},
	}
}

// Save writes f as YAML, creating parent directories.
func Save(path string, f File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
