package leads

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSetsOutreachSentinel(t *testing.T) {
	b := New("Bizname", "Chicago", "https://bizname.com", "https://maps.example/1")

	require.Equal(t, OutreachNone, b.OutreachEmail)
	require.Empty(t, b.Email)
}

func TestJoinPainPoints(t *testing.T) {
	cases := []struct {
		name   string
		points []string
		want   string
	}{
		{"three points", []string{"a", "b", "c"}, "a; b; c"},
		{"single point", []string{"only one"}, "only one"},
		{"empty entries dropped", []string{" ", "real", ""}, "real"},
		{"whitespace trimmed", []string{"  padded  ", "next"}, "padded; next"},
		{"nil", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, JoinPainPoints(tc.points))
		})
	}
}

func TestHasUsableWebsite(t *testing.T) {
	cases := []struct {
		name    string
		website string
		want    bool
	}{
		{"https site", "https://bizname.com", true},
		{"http site", "http://bizname.com/home", true},
		{"empty", "", false},
		{"relative", "/about", false},
		{"mailto", "mailto:info@bizname.com", false},
		{"facebook", "https://facebook.com/bizname", false},
		{"facebook subdomain", "https://www.facebook.com/bizname", false},
		{"instagram", "https://instagram.com/bizname", false},
		{"yelp", "https://www.yelp.com/biz/bizname", false},
		{"domain merely containing social name", "https://notfacebook.company.com", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Business{Website: tc.website}
			require.Equal(t, tc.want, b.HasUsableWebsite())
		})
	}
}

func TestWriteCSV(t *testing.T) {
	businesses := []Business{
		{
			Name:          "Bizname Roastery",
			Location:      "South Loop, Chicago",
			Website:       "https://roastery.com",
			SourceURL:     "https://maps.example/1",
			Email:         "info@roastery.com",
			EmailSource:   "smart_extractor",
			Summary:       "This company roasts coffee.",
			PainPoints:    "no webshop; small radius",
			OutreachEmail: "Hi there...",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, businesses))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "name,location,website,source_url,email,email_source,summary,pain_points,outreach_email", lines[0])
	require.Contains(t, lines[1], "info@roastery.com")
	require.Contains(t, lines[1], "smart_extractor")
}

func TestWriteCSVEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	require.Equal(t, "name,location,website,source_url,email,email_source,summary,pain_points,outreach_email\n", buf.String())
}
