package commons

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// ErrNotPointer is returned by SetConfigFromEnvVars when the target is not a
// non-nil pointer to a struct.
var ErrNotPointer = errors.New("config target must be a non-nil pointer to a struct")

// LocalEnvConfig reports whether a local .env file was loaded.
type LocalEnvConfig struct {
	Initialized bool
}

var (
	localEnvConfig     *LocalEnvConfig
	localEnvConfigOnce sync.Once
)

// GetenvOrDefault returns the value of key, or defaultValue when the variable
// is unset, empty or whitespace-only.
func GetenvOrDefault(key string, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	return value
}

// GetenvBoolOrDefault parses key with strconv.ParseBool, falling back to
// defaultValue when the variable is missing or invalid.
func GetenvBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(GetenvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}

	return value
}

// GetenvIntOrDefault parses key as a base-10 int64, falling back to
// defaultValue when the variable is missing or invalid.
func GetenvIntOrDefault(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(GetenvOrDefault(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// SetConfigFromEnvVars fills the fields of the struct pointed to by s from the
// environment variables named in their `env` tags. Missing variables leave the
// zero value in place.
func SetConfigFromEnvVars(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotPointer
	}

	elem := v.Elem()
	typ := elem.Type()

	for i := range elem.NumField() {
		tag, ok := typ.Field(i).Tag.Lookup("env")
		if !ok || tag == "" {
			continue
		}

		field := elem.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(GetenvOrDefault(tag, ""))
		case reflect.Bool:
			field.SetBool(GetenvBoolOrDefault(tag, false))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(GetenvIntOrDefault(tag, 0))
		default:
			return fmt.Errorf("field %s: unsupported kind %s", typ.Field(i).Name, field.Kind())
		}
	}

	return nil
}

// InitLocalEnvConfig prints the running version and environment and loads a
// .env file from the working directory when one exists. Variables already set
// in the process environment are never overridden.
func InitLocalEnvConfig() *LocalEnvConfig {
	version := GetenvOrDefault("VERSION", "NO-VERSION")
	envName := GetenvOrDefault("ENV_NAME", "production")

	fmt.Printf("VERSION: %s\n\n", version)
	fmt.Printf("ENVIRONMENT NAME: %s\n\n", envName)

	localEnvConfigOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			localEnvConfig = &LocalEnvConfig{Initialized: false}
			return
		}

		fmt.Println("Env vars loaded from .env file")

		localEnvConfig = &LocalEnvConfig{Initialized: true}
	})

	return localEnvConfig
}
