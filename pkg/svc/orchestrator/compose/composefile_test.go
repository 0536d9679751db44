package compose_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arrbiter/arrctl/pkg/svc/orchestrator/compose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleComposeFile = `services:
  gluetun:
    image: qmcgaw/gluetun:latest
    container_name: gluetun
  qbittorrent:
    image: lscr.io/linuxserver/qbittorrent:latest
    container_name: qbittorrent
    network_mode: "service:gluetun"
  sonarr:
    image: lscr.io/linuxserver/sonarr:latest
volumes:
  gluetun-data:
`

func TestParseDeclaredServices(t *testing.T) {
	t.Parallel()

	file, err := compose.Parse([]byte(sampleComposeFile))

	require.NoError(t, err)
	assert.Equal(t, []string{"gluetun", "qbittorrent", "sonarr"}, file.ServiceNames())
}

func TestParseServiceFields(t *testing.T) {
	t.Parallel()

	file, err := compose.Parse([]byte(sampleComposeFile))
	require.NoError(t, err)

	qbit := file.Services["qbittorrent"]
	assert.Equal(t, "qbittorrent", qbit.ContainerName)
	assert.Equal(t, "service:gluetun", qbit.NetworkMode)
	assert.Equal(t, "lscr.io/linuxserver/sonarr:latest", file.Services["sonarr"].Image)
}

func TestHasService(t *testing.T) {
	t.Parallel()

	file, err := compose.Parse([]byte(sampleComposeFile))
	require.NoError(t, err)

	assert.True(t, file.HasService("gluetun"))
	assert.False(t, file.HasService("jellyfin"))
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := compose.Parse([]byte("services: [not: a: mapping"))

	require.Error(t, err)
}

func TestParseEmptyServices(t *testing.T) {
	t.Parallel()

	file, err := compose.Parse([]byte("services: {}\n"))

	require.NoError(t, err)
	assert.Empty(t, file.ServiceNames())
}

func TestParseFileMissing(t *testing.T) {
	t.Parallel()

	_, err := compose.ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
}

func TestParseFileFromDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docker-compose.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleComposeFile), 0o600))

	file, err := compose.ParseFile(path)

	require.NoError(t, err)
	assert.Len(t, file.Services, 3)
}
