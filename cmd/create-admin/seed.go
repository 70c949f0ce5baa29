package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/college-site-api/internal/models"
)

const defaultAdminEmail = "admin@college.am"

type adminSeed struct {
	Email    string          `yaml:"email"`
	Password string          `yaml:"password"`
	FullName string          `yaml:"full_name"`
	Role     models.UserRole `yaml:"role"`
}

type seedFile struct {
	Admins []adminSeed `yaml:"admins"`
}

func parseSeed(r io.Reader) ([]adminSeed, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed file is empty")
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(file.Admins) == 0 {
		return nil, errors.New("seed file lists no admins")
	}
	for i := range file.Admins {
		file.Admins[i].Role = models.UserRole(strings.ToUpper(string(file.Admins[i].Role)))
		if strings.TrimSpace(file.Admins[i].Email) == "" {
			return nil, fmt.Errorf("admins[%d]: email is required", i)
		}
	}
	return file.Admins, nil
}

func loadSeed(path string) ([]adminSeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseSeed(f)
}

// seedFromEnv builds a single admin from flag values falling back to the
// environment.
func seedFromEnv(email, password, name, role string, getenv func(string) string) adminSeed {
	pick := func(value, key, fallback string) string {
		if value != "" {
			return value
		}
		if env := getenv(key); env != "" {
			return env
		}
		return fallback
	}
	return adminSeed{
		Email:    pick(email, "ADMIN_EMAIL", defaultAdminEmail),
		Password: pick(password, "ADMIN_PASSWORD", ""),
		FullName: pick(name, "ADMIN_NAME", "Administrator"),
		Role:     models.UserRole(strings.ToUpper(pick(role, "ADMIN_ROLE", string(models.RoleAdmin)))),
	}
}
