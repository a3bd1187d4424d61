// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A .env file next to the process is loaded first when present, so secrets such as
// the API key or database password can live outside the YAML file.
//
// Every field has a default; the tracker runs with no config file at all.
package config
