package config

import (
	"crypto/subtle"
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte

	//go:embed default/root_fs.tar.gz
	rootFsData []byte
)

const (
	ConfigurationName = "config.yaml"
	DownloadDirName   = "downloads"
	LogsDirName       = "session_logs"
	PrivateKeyName    = "private_key"
	RootFSName        = "root_fs.tar.gz"
	AppLogName        = "app.log"
)

type Configuration struct {
	configFs afero.Fs

	Motd string `json:"motd"`

	SSH SSH `json:"ssh"`

	OS OS `json:"os"`

	AllowAnyPassword bool     `json:"allow_any_password"`
	GlobalPasswords  []string `json:"global_passwords"`

	Users []User `json:"users" validate:"unique=Username,dive"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type SSH struct {
	Port   int    `json:"port" validate:"gte=0,lte=65535"`
	Banner string `json:"banner"`
}

type OS struct {
	Hostname     string `json:"hostname" validate:"required,hostname_rfc1123"`
	DefaultShell string `json:"default_shell" validate:"required"`
	DefaultPath  string `json:"default_path" validate:"required"`
}

type User struct {
	Username  string   `json:"username" validate:"required"`
	UID       int      `json:"uid" validate:"gte=0"`
	Home      string   `json:"home" validate:"required"`
	Shell     string   `json:"shell" validate:"required"`
	Passwords []string `json:"passwords" validate:"unique"`
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// Create a download with the given name.
func (c *Configuration) CreateDownload(name string) (afero.File, error) {
	toCreate := filepath.Join(DownloadDirName, name)
	return c.fs().Create(toCreate)
}

func (c *Configuration) CreateSessionLog(name string) (afero.File, error) {
	toCreate := filepath.Join(LogsDirName, name)
	return c.fs().Create(toCreate)
}

// PrivateKeyPem returns the bytes of the private key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// OpenFilesystemTarGz opens the backing filesystem .tar.gz file.
func (c *Configuration) OpenFilesystemTarGz() (afero.File, error) {
	return c.fs().Open(RootFSName)
}

// GetUser looks up the configured user with the given name.
func (c *Configuration) GetUser(username string) (User, bool) {
	for _, v := range c.Users {
		if v.Username == username {
			return v, true
		}
	}
	return User{}, false
}

// GetPasswords returns allowable passwords for the given username.
func (c *Configuration) GetPasswords(username string) []string {
	var out []string
	for _, v := range c.Users {
		if v.Username == username {
			out = append(out, v.Passwords...)
		}
	}

	out = append(out, c.GlobalPasswords...)
	return out
}

// CheckPassword reports whether the password is acceptable for the user.
// It always compares against the full password list to keep timing uniform.
func (c *Configuration) CheckPassword(username, password string) bool {
	ok := c.AllowAnyPassword
	for _, candidate := range c.GetPasswords(username) {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(password)) == 1 {
			ok = true
		}
	}
	return ok
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
