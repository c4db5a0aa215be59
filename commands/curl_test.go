package commands

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteFilename(t *testing.T) {
	cases := []struct {
		rawURL  string
		want    string
		wantErr bool
	}{
		{rawURL: "http://example.com/files/payload.bin", want: "payload.bin"},
		{rawURL: "http://example.com/setup.sh", want: "setup.sh"},
		{rawURL: "http://example.com/", wantErr: true},
		{rawURL: "http://example.com", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.rawURL, func(t *testing.T) {
			parsed, err := url.Parse(tc.rawURL)
			require.NoError(t, err)

			got, err := remoteFilename(parsed)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
