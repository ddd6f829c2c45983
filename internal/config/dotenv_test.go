package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnvFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env.local")
	second := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(first, []byte("PAYOUT_DOTENV_A=local\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("PAYOUT_DOTENV_A=base\nPAYOUT_DOTENV_B=base\n"), 0o600))

	for _, k := range []string{"PAYOUT_DOTENV_A", "PAYOUT_DOTENV_B"} {
		key := k
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	loaded := loadDotEnvFiles(first, filepath.Join(dir, ".env.missing"), second)
	assert.Equal(t, []string{first, second}, loaded)
	assert.Equal(t, "local", os.Getenv("PAYOUT_DOTENV_A"))
	assert.Equal(t, "base", os.Getenv("PAYOUT_DOTENV_B"))
}

func TestLoadDotEnvFiles_ExistingEnvWins(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("PAYOUT_DOTENV_C=file\n"), 0o600))
	t.Setenv("PAYOUT_DOTENV_C", "os")

	loadDotEnvFiles(file)
	assert.Equal(t, "os", os.Getenv("PAYOUT_DOTENV_C"))
}
