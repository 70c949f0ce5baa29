package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-site-api/internal/models"
)

func TestParseSeed(t *testing.T) {
	seeds, err := parseSeed(strings.NewReader(`
admins:
  - email: dean@college.am
    password: secret123
    full_name: Dean
    role: superadmin
  - email: editor@college.am
    password: secret456
`))
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, models.RoleSuperAdmin, seeds[0].Role)
	assert.Equal(t, "Dean", seeds[0].FullName)
	assert.Equal(t, models.UserRole(""), seeds[1].Role)
}

func TestParseSeedRejects(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no admins":     "admins: []\n",
		"missing email": "admins:\n  - password: x\n",
		"unknown field": "admins:\n  - email: a@b.c\n    pasword: typo\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseSeed(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestSeedFromEnv(t *testing.T) {
	env := map[string]string{"ADMIN_PASSWORD": "from-env", "ADMIN_ROLE": "superadmin"}
	getenv := func(k string) string { return env[k] }

	seed := seedFromEnv("", "", "", "", getenv)
	assert.Equal(t, defaultAdminEmail, seed.Email)
	assert.Equal(t, "from-env", seed.Password)
	assert.Equal(t, "Administrator", seed.FullName)
	assert.Equal(t, models.RoleSuperAdmin, seed.Role)

	seed = seedFromEnv("ops@college.am", "flagpass", "Ops", "admin", getenv)
	assert.Equal(t, "ops@college.am", seed.Email)
	assert.Equal(t, "flagpass", seed.Password)
	assert.Equal(t, models.RoleAdmin, seed.Role)
}
