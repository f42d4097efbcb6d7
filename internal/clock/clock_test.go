package clock

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedClock(t *testing.T) {
	c := At(2026, time.October, 18)
	assert.Equal(t, Date{2026, time.October, 18}, c.Today())

	c.Advance(24 * time.Hour)
	assert.Equal(t, Date{2026, time.October, 19}, c.Today())

	c.Set(time.Date(2027, time.January, 1, 8, 0, 0, 0, time.Local))
	assert.Equal(t, "2027-01-01", c.Today().String())
}

func TestDateAddDaysCrossesBoundaries(t *testing.T) {
	d := MustParseDate("2026-12-31")
	assert.Equal(t, "2027-01-01", d.AddDays(1).String())
	assert.Equal(t, "2026-12-30", d.AddDays(-1).String())
	assert.Equal(t, "2028-02-29", MustParseDate("2028-02-28").AddDays(1).String())
	assert.Equal(t, "2026-03-01", MustParseDate("2026-02-28").AddDays(1).String())
}

func TestDateCompare(t *testing.T) {
	a := MustParseDate("2026-10-17")
	b := MustParseDate("2026-10-18")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(MustParseDate("2026-10-17")))
	assert.True(t, MustParseDate("2025-12-31").Before(MustParseDate("2026-01-01")))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("2026-13-01")
	assert.Error(t, err)

	_, err = ParseDate("2026-10-18T10:00:00Z")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Due Date `json:"due"`
	}

	out, err := json.Marshal(wrapper{Due: MustParseDate("2026-10-18")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-10-18"}`, string(out))

	out, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":""}`, string(out))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"due":""}`), &w))
	assert.True(t, w.Due.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-01-05"}`), &w))
	assert.Equal(t, Date{2026, time.January, 5}, w.Due)
}

func TestDateFormat(t *testing.T) {
	assert.Equal(t, "Oct 6", MustParseDate("2026-10-06").Format("Jan 2"))
	assert.Equal(t, "", Date{}.String())
}
