package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
device = "STM32F407VG"
firmware = "build/firmware.elf"
speed = 8000
complete_when = ["passed >= 5"]
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "STM32F407VG", cfg.Device)
	require.Equal(t, "build/firmware.elf", cfg.Firmware)
	require.Equal(t, 8000, cfg.Speed)
	require.Equal(t, "SWD", cfg.Interface, "unset fields keep defaults")
	require.Equal(t, 60, cfg.TimeoutSeconds)
	require.Equal(t, []string{"passed >= 5"}, cfg.CompleteWhen)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("device = ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
