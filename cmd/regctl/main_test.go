package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/TrainingReg/internal/app"
	"github.com/JonMunkholm/TrainingReg/internal/review"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("FEED_DRIVER", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := rootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "regctl version "+app.Version+"\n", out)
}

func TestMigrateRequiresDatabase(t *testing.T) {
	_, err := execute(t, "migrate", "up")
	assert.ErrorIs(t, err, errNoDatabase)

	_, err = execute(t, "migrate", "down")
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestExportToStdout(t *testing.T) {
	out, err := execute(t, "export", "--out", "-")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, review.ExportBOM))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, review.ExportBOM)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Join(review.English.Headers, ";"), strings.TrimRight(lines[0], "\r"))
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, err := execute(t, "export", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(review.ExportBOM)))
}

func TestListEmptyStore(t *testing.T) {
	out, err := execute(t, "list", "--sort", "full_name", "--desc")
	require.NoError(t, err)

	var result review.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, result.TotalPages)
}

func TestListRejectsUnknownSortKey(t *testing.T) {
	_, err := execute(t, "list", "--sort", "salary")
	assert.ErrorContains(t, err, "unknown sort key")
}

func TestListHugePageIsEmpty(t *testing.T) {
	out, err := execute(t, "list", "--page", "922337203685477582")
	require.NoError(t, err)

	var result review.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.Rows)
	assert.Equal(t, 922337203685477582, result.Page)
}
