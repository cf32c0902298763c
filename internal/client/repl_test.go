package client

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunREPL(t *testing.T) {
	records := &fakeRecords{}
	app := newTestApp(&fakeForecaster{report: seattle()}, records, nil)

	in := strings.NewReader("help\nget Seattle\nlist\nbogus\nquit\nget London\n")
	var out bytes.Buffer

	require.NoError(t, RunREPL(context.Background(), app, in, &out))

	s := out.String()
	assert.Contains(t, s, "Commands:")
	assert.Contains(t, s, "Current weather in Seattle")
	assert.Contains(t, s, "18°C")
	assert.Contains(t, s, `Unknown command "bogus"`)
	assert.Contains(t, s, "Bye!")
	assert.Len(t, records.recs, 1, "commands after quit are not run")
}

func TestRunREPL_EditAndDelete(t *testing.T) {
	records := &fakeRecords{}
	app := newTestApp(&fakeForecaster{report: seattle()}, records, nil)
	require.NoError(t, app.Search(context.Background(), "Seattle"))
	id := records.recs[0].ID.Hex()

	in := strings.NewReader("edit " + id + " description=Light rain humidity=70%\ndelete " + id + "\n")
	var out bytes.Buffer
	require.NoError(t, RunREPL(context.Background(), app, in, &out))

	assert.Contains(t, out.String(), "Light rain")
	assert.Empty(t, records.recs)
}

func TestRunREPL_HereWithoutGeolocation(t *testing.T) {
	app := newTestApp(&fakeForecaster{report: seattle()}, &fakeRecords{}, nil)

	var out bytes.Buffer
	require.NoError(t, RunREPL(context.Background(), app, strings.NewReader("here\n"), &out))
	assert.Contains(t, out.String(), MsgGeoUnsupported)
}

func TestParseEdit(t *testing.T) {
	f, err := parseEdit("location=New York temp=21°C start=2025-06-01 end=2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, "New York", *f.Location)
	assert.Equal(t, "21°C", *f.Temperature)
	require.NotNil(t, f.DateRange)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *f.DateRange.Start)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), *f.DateRange.End)
	assert.Nil(t, f.Humidity)

	_, err = parseEdit("")
	assert.Error(t, err)

	_, err = parseEdit("stray location=Paris")
	assert.Error(t, err)

	_, err = parseEdit("color=blue")
	assert.ErrorContains(t, err, "unknown field")

	_, err = parseEdit("start=someday")
	assert.Error(t, err)
}
