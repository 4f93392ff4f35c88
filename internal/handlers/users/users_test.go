package handlers

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addalive/admin_console/config"
)

func catalog(t *testing.T) *config.Catalog {
	t.Helper()
	c, err := config.LoadCatalog()
	require.NoError(t, err)
	return c
}

func TestParseZone(t *testing.T) {
	cat := catalog(t)

	_, msg := parseZone(cat, "u1", url.Values{"zone": {"limbo"}})
	assert.Equal(t, msgInvalidZone, msg)

	upd, msg := parseZone(cat, "u1", url.Values{"zone": {"safe"}, "dateTill": {"2026-11-01T09:00"}})
	assert.Empty(t, msg)
	assert.Equal(t, "safe", upd.Zone)
	assert.Nil(t, upd.DateTill, "only temp_block carries a date")

	upd, msg = parseZone(cat, "u1", url.Values{"zone": {"temp_block"}, "dateTill": {"2026-11-01T09:00:00Z"}})
	assert.Empty(t, msg)
	require.NotNil(t, upd.DateTill)
	assert.True(t, upd.DateTill.Equal(time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)))

	upd, msg = parseZone(cat, "u1", url.Values{"zone": {"temp_block"}})
	assert.Empty(t, msg)
	assert.Nil(t, upd.DateTill)

	_, msg = parseZone(cat, "u1", url.Values{"zone": {"temp_block"}, "dateTill": {"tomorrow"}})
	assert.Equal(t, "Invalid block date", msg)
}

func TestParseStats(t *testing.T) {
	tests := []struct {
		name  string
		form  url.Values
		want  string
		stars int64
	}{
		{"both set", url.Values{"stars": {"3"}, "diamonds": {"0"}}, "", 3},
		{"diamonds not a number", url.Values{"stars": {"3"}, "diamonds": {"abc"}}, msgInvalidDiamonds, 0},
		{"stars missing", url.Values{"diamonds": {"4"}}, msgInvalidStars, 0},
		{"negative stars", url.Values{"stars": {"-1"}, "diamonds": {"4"}}, msgInvalidStars, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd, msg := parseStats(tt.form)
			assert.Equal(t, tt.want, msg)
			if tt.want == "" {
				require.NotNil(t, upd.Stars)
				assert.Equal(t, tt.stars, *upd.Stars)
			}
		})
	}
}

func TestParsePositive(t *testing.T) {
	n, ok := parsePositive(" 25 ")
	assert.True(t, ok)
	assert.Equal(t, int64(25), n)

	for _, s := range []string{"0", "-4", "", "1.5", "ten"} {
		_, ok := parsePositive(s)
		assert.False(t, ok, s)
	}
}
