package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetWithDefault(rdr("\n"), "Title", "Old", &out)
	require.NoError(t, err)
	require.Equal(t, "Old", got)
	require.Contains(t, out.String(), "Title [Old]")

	got, err = GetWithDefault(rdr("New\n"), "Title", "Old", &out)
	require.NoError(t, err)
	require.Equal(t, "New", got)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.Location
		wantErr bool
	}{
		{name: "plain", input: "32.032,118.821", want: models.Location{Latitude: 32.032, Longitude: 118.821}},
		{name: "spaces", input: " -33.9 , 18.4 ", want: models.Location{Latitude: -33.9, Longitude: 18.4}},
		{name: "missing comma", input: "32.0 118.8", wantErr: true},
		{name: "not a number", input: "north,east", wantErr: true},
		{name: "out of range", input: "91,0", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseLocation(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseTemperature(t *testing.T) {
	v, err := parseTemperature("")
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = parseTemperature("24°C")
	require.NoError(t, err)
	require.Equal(t, 24.0, *v)

	_, err = parseTemperature("warm")
	require.Error(t, err)
}
