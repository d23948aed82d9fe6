package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/TrainingReg/internal/config"
	"github.com/JonMunkholm/TrainingReg/internal/review"
	"github.com/JonMunkholm/TrainingReg/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_MemoryWithoutDatabase(t *testing.T) {
	cfg, err := config.LoadFrom(func(string) string { return "" })
	require.NoError(t, err)

	b, err := Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &store.Memory{}, b.Store)
	assert.Nil(t, b.Publisher)
	assert.Nil(t, b.Health)
	assert.Equal(t, config.FeedMemory, b.Driver)
}

func TestReviewOptions(t *testing.T) {
	cfg, err := config.LoadFrom(func(k string) string {
		switch k {
		case "EXPORT_LOCALE":
			return "pt-BR"
		case "EXPORT_TIMEZONE":
			return "America/Sao_Paulo"
		case "EXPORT_FILE_PREFIX":
			return "inscritos-treinamento-"
		}
		return ""
	})
	require.NoError(t, err)

	opts, err := ReviewOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, review.BrazilianPortuguese.Yes, opts.Locale.Yes)
	assert.Equal(t, "inscritos-treinamento-", opts.Prefix)
	assert.Equal(t, 5*time.Minute, opts.ResyncInterval)

	want, _ := time.LoadLocation("America/Sao_Paulo")
	assert.Equal(t, want.String(), opts.Location.String())
}

func TestReviewOptions_UnsupportedLocale(t *testing.T) {
	cfg := &config.Config{Export: config.ExportConfig{Locale: "ja", Timezone: "UTC"}}
	_, err := ReviewOptions(cfg)
	assert.Error(t, err)
}
