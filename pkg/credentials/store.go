// Package credentials finds the AWS access keys the cluster tool runs with.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"gopkg.in/ini.v1"
)

const (
	AccessKeyIDKey     = "aws_access_key_id"
	SecretAccessKeyKey = "aws_secret_access_key"
	DefaultProfile     = "default"

	configProfilePrefix = "profile "
)

// Credentials is one access key pair and the profile it came from.
type Credentials struct {
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
}

func (c Credentials) Complete() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Store reads and writes the shared AWS credential files.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at ~/.aws.
func NewStore() (*Store, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	return &Store{Dir: filepath.Join(home, ".aws")}, nil
}

func (s *Store) CredentialsFile() string {
	return filepath.Join(s.Dir, "credentials")
}

func (s *Store) ConfigFile() string {
	return filepath.Join(s.Dir, "config")
}

// Profiles lists every section holding both keys, credentials file first.
// A name seen twice keeps its first definition.
func (s *Store) Profiles() ([]Credentials, error) {
	l := logger.Get()

	var profiles []Credentials
	seen := map[string]bool{}
	for _, path := range []string{s.CredentialsFile(), s.ConfigFile()} {
		file, err := ini.LoadSources(ini.LoadOptions{Loose: true}, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for _, section := range file.Sections() {
			if !section.HasKey(AccessKeyIDKey) || !section.HasKey(SecretAccessKeyKey) {
				continue
			}
			name := strings.TrimPrefix(section.Name(), configProfilePrefix)
			if name == ini.DefaultSection {
				name = DefaultProfile
			}
			if seen[name] {
				continue
			}
			creds := Credentials{
				Profile:         name,
				AccessKeyID:     section.Key(AccessKeyIDKey).String(),
				SecretAccessKey: section.Key(SecretAccessKeyKey).String(),
			}
			if !creds.Complete() {
				continue
			}
			seen[name] = true
			l.Debugf("Found AWS profile: %s", name)
			profiles = append(profiles, creds)
		}
	}
	return profiles, nil
}

// Save writes creds into its profile section of the credentials file,
// keeping every other section.
func (s *Store) Save(creds Credentials) error {
	if !creds.Complete() {
		return fmt.Errorf("refusing to save incomplete credentials")
	}
	profile := creds.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Dir, err)
	}

	path := s.CredentialsFile()
	file, err := ini.LoadSources(ini.LoadOptions{Loose: true}, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	section := file.Section(profile)
	section.Key(AccessKeyIDKey).SetValue(creds.AccessKeyID)
	section.Key(SecretAccessKeyKey).SetValue(creds.SecretAccessKey)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if err := f.Chmod(0o600); err != nil {
		return fmt.Errorf("failed to restrict %s: %w", path, err)
	}
	if _, err := file.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Get().Debugf("Saved AWS profile %s to %s", profile, path)
	return nil
}
