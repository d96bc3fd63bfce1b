package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-term/internal/config"
)

func TestSetupLevels(t *testing.T) {
	c := config.Default()

	log := logrus.New()
	require.NoError(t, Setup(log, c))
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	c.Mode = "development"
	require.NoError(t, Setup(log, c))
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	c.Log.Level = "loud"
	assert.Error(t, Setup(logrus.New(), c))
}

func TestSetupWritesFile(t *testing.T) {
	c := config.Default()
	c.Log.Level = "info"
	c.Log.File = filepath.Join(t.TempDir(), "mines.log")

	log := logrus.New()
	require.NoError(t, Setup(log, c))
	log.WithField("board", "9:9:10").Info("new game")

	data, err := os.ReadFile(c.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"new game"`)
	assert.Contains(t, string(data), `"board":"9:9:10"`)
}
