package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type envTypes interface {
	~string | ~int | ~bool | ~float64
}

func parseEnv[T envTypes](name, raw string) T {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			panic(fmt.Sprintf("environment variable %s is not valid: '%s' is not an integer", name, raw))
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			panic(fmt.Sprintf("environment variable %s is not valid: '%s' is not a boolean", name, raw))
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			panic(fmt.Sprintf("environment variable %s is not valid: '%s' is not a float", name, raw))
		}
		*p = v
	}
	return out
}

func GetEnv[T envTypes](name string, defaultValue T) T {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return defaultValue
	}
	return parseEnv[T](name, raw)
}

func GetRequiredEnv[T envTypes](name string) T {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		log.Fatalf("%s environment variable is required", name)
	}
	return parseEnv[T](name, raw)
}
