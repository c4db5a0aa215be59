package config

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	assert.NotNil(t, defaultConfig())
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.Nil(t, defaultConfig().Validate())
}

func TestConfigurationValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(c *Configuration)
		wantErr string
	}{
		"default ok": {
			mutate: func(c *Configuration) {},
		},
		"duplicate usernames": {
			mutate: func(c *Configuration) {
				c.Users = append(c.Users, c.Users[0])
			},
			wantErr: "users",
		},
		"blank username": {
			mutate: func(c *Configuration) {
				c.Users[0].Username = ""
			},
			wantErr: "username",
		},
		"missing home": {
			mutate: func(c *Configuration) {
				c.Users[0].Home = ""
			},
			wantErr: "home",
		},
		"bad hostname": {
			mutate: func(c *Configuration) {
				c.OS.Hostname = "not a hostname!"
			},
			wantErr: "hostname",
		},
		"bad port": {
			mutate: func(c *Configuration) {
				c.SSH.Port = 1 << 16
			},
			wantErr: "port",
		},
		"repeated password": {
			mutate: func(c *Configuration) {
				c.Users[0].Passwords = []string{"hunter2", "hunter2"}
			},
			wantErr: "passwords",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.Nil(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	cfg := defaultConfig()

	user, ok := cfg.GetUser("root")
	assert.True(t, ok)
	assert.Equal(t, 0, user.UID)
	assert.Equal(t, "/root", user.Home)

	_, ok = cfg.GetUser("nobody")
	assert.False(t, ok)
}

func TestGetPasswords(t *testing.T) {
	cfg := &Configuration{
		GlobalPasswords: []string{"letmein"},
		Users: []User{
			{Username: "root", Passwords: []string{"root", "toor"}},
			{Username: "admin", Passwords: []string{"admin"}},
		},
	}

	assert.Equal(t, []string{"root", "toor", "letmein"}, cfg.GetPasswords("root"))
	assert.Equal(t, []string{"admin", "letmein"}, cfg.GetPasswords("admin"))
	assert.Equal(t, []string{"letmein"}, cfg.GetPasswords("nobody"))
}

func TestCheckPassword(t *testing.T) {
	cfg := &Configuration{
		GlobalPasswords: []string{"letmein"},
		Users: []User{
			{Username: "root", Passwords: []string{"toor"}},
		},
	}

	assert.True(t, cfg.CheckPassword("root", "toor"))
	assert.True(t, cfg.CheckPassword("root", "letmein"))
	assert.False(t, cfg.CheckPassword("root", "password"))
	assert.False(t, cfg.CheckPassword("nobody", "toor"))

	cfg.AllowAnyPassword = true
	assert.True(t, cfg.CheckPassword("nobody", "anything at all"))
}

func TestFs(t *testing.T) {
	gr, gzipErr := gzip.NewReader(bytes.NewReader(rootFsData))
	require.Nil(t, gzipErr, "not a valid gzip")

	names := make(map[string]bool)
	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.Nil(t, err)
		names[hdr.Name] = true
	}

	// Entries every session depends on.
	for _, name := range []string{"bin/sh", "etc/passwd", "tmp/", "root/"} {
		assert.True(t, names[name], "default image missing %q", name)
	}
}

func TestLoadFs(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		configFs := afero.NewMemMapFs()
		require.Nil(t, afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600))

		cfg, err := loadFs(configFs)
		require.Nil(t, err)
		assert.Equal(t, "sandbox", cfg.OS.Hostname)
		assert.Equal(t, 2222, cfg.SSH.Port)
		assert.Len(t, cfg.Users, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadFs(afero.NewMemMapFs())
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		configFs := afero.NewMemMapFs()
		require.Nil(t, afero.WriteFile(configFs, ConfigurationName, []byte("bogus_key: 1\n"), 0600))

		_, err := loadFs(configFs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "couldn't parse")
	})

	t.Run("invalid config", func(t *testing.T) {
		contents := bytes.Replace(defaultConfigData, []byte("hostname: sandbox"), []byte(`hostname: "***"`), 1)
		configFs := afero.NewMemMapFs()
		require.Nil(t, afero.WriteFile(configFs, ConfigurationName, contents, 0600))

		_, err := loadFs(configFs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid")
	})
}
