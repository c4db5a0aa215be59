package vos

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// VEnv is a process's environment. Variables hold plain strings; nothing
// in the system ever substitutes them into command words.
type VEnv interface {
	// Setenv sets the value of the variable named by the key.
	Setenv(key, value string) error

	// Unsetenv removes a single variable.
	Unsetenv(key string) error

	// Getenv retrieves the value of the variable named by the key,
	// returning "" if it is not present. To distinguish an empty value
	// from an unset one, use LookupEnv.
	Getenv(key string) string

	// LookupEnv retrieves the value of the variable named by the key and
	// whether it is present at all.
	LookupEnv(key string) (string, bool)

	// Environ returns a copy of the environment as "key=value" strings,
	// sorted by key.
	Environ() []string

	// Clearenv removes every variable.
	Clearenv()

	// UserHomeDir returns the current user's home directory.
	UserHomeDir() (string, error)
}

// EnvironFetcher is the read-only corner of VEnv used when copying
// environments between processes.
type EnvironFetcher interface {
	Environ() []string
}

// CopyEnv copies all the variables from src into dst.
func CopyEnv(dst VEnv, src EnvironFetcher) error {
	for _, entry := range src.Environ() {
		key, value := splitEnvEntry(entry)
		if err := dst.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

func splitEnvEntry(entry string) (key, value string) {
	split := strings.SplitN(entry, "=", 2)
	if len(split) > 1 {
		return split[0], split[1]
	}
	return split[0], ""
}

// NewMapEnv creates an empty environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFrom creates an environment holding a copy of src's variables.
func NewMapEnvFrom(src EnvironFetcher) *MapEnv {
	return NewMapEnvFromEnvList(src.Environ())
}

// NewMapEnvFromEnvList creates an environment from "key=value" entries. An
// entry without "=" becomes a variable with an empty value; duplicate keys
// keep the last value.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}
	for _, entry := range environ {
		key, value := splitEnvEntry(entry)
		// Never fails for MapEnv.
		_ = out.Setenv(key, value)
	}
	return out
}

// MapEnv is an in-memory VEnv, safe for concurrent use.
type MapEnv struct {
	mu  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// Unsetenv implements VEnv.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.env, key)
	return nil
}

// Getenv implements VEnv.Getenv.
func (m *MapEnv) Getenv(key string) string {
	value, _ := m.LookupEnv(key)
	return value
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.env[key]
	return value, ok
}

// Environ implements VEnv.Environ. Entries come back sorted so output that
// lists the environment is stable.
func (m *MapEnv) Environ() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}

// Clearenv implements VEnv.Clearenv.
func (m *MapEnv) Clearenv() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.env = make(map[string]string)
}

// UserHomeDir implements VEnv.UserHomeDir.
func (m *MapEnv) UserHomeDir() (string, error) {
	return m.Getenv("HOME"), nil
}
