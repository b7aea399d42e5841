package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	ssoSessionMarker     = "sso-session"
	userDataDirName      = ".aws-sso-login"
	awsConfigEnv         = "AWS_CONFIG_FILE"
	defaultConfigRelPath = ".aws/config"
)

var (
	ErrConfigNotFound = errors.New("aws config not found")
	ErrConfigParse    = errors.New("aws config is malformed")
	// ErrNoSessions is returned when the config holds no sso-session sections.
	ErrNoSessions = fmt.Errorf("%w: no sso-session sections, please run aws configure sso", ErrConfigNotFound)
)

// SSOSession represents an [sso-session NAME] block of the AWS config
type SSOSession struct {
	Name     string
	StartURL string
	Region   string
}

// Manager handles configuration file operations
type Manager struct {
	configPath string
}

// NewManager creates a configuration manager for the AWS CLI config file.
// $AWS_CONFIG_FILE wins over ~/.aws/config, the same way the AWS CLI resolves it.
func NewManager() (*Manager, error) {
	configPath, err := getAWSConfigPath()
	if err != nil {
		return nil, err
	}

	return &Manager{configPath: configPath}, nil
}

// NewManagerAt creates a configuration manager for an explicit config path
func NewManagerAt(path string) *Manager {
	return &Manager{configPath: path}
}

// Path returns the config file the manager reads
func (m *Manager) Path() string {
	return m.configPath
}

// LoadSessions loads every sso-session section, sorted by name
func (m *Manager) LoadSessions() ([]SSOSession, error) {
	if _, err := os.Stat(m.configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s, please run aws configure sso", ErrConfigNotFound, m.configPath)
		}
		return nil, fmt.Errorf("%w: %w", ErrConfigNotFound, err)
	}

	cfg, err := ini.Load(m.configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	var sessions []SSOSession

	for _, section := range cfg.Sections() {
		name, ok := sessionName(section.Name())
		if !ok {
			continue
		}

		sessions = append(sessions, SSOSession{
			Name:     name,
			StartURL: section.Key("sso_start_url").String(),
			Region:   section.Key("sso_region").String(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Name < sessions[j].Name
	})

	return sessions, nil
}

// sessionName extracts NAME from a section named "sso-session NAME"
func sessionName(section string) (string, bool) {
	fields := strings.Fields(section)
	if len(fields) < 2 || fields[0] != ssoSessionMarker {
		return "", false
	}
	return fields[1], true
}

// UserDataDir returns the persistent browser profile directory
func UserDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: failed to get home directory: %w", ErrConfigNotFound, err)
	}

	dir := filepath.Join(homeDir, userDataDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	return dir, nil
}

func getAWSConfigPath() (string, error) {
	if path := os.Getenv(awsConfigEnv); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: failed to get home directory: %w", ErrConfigNotFound, err)
	}

	return filepath.Join(homeDir, defaultConfigRelPath), nil
}
