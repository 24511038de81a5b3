// Package config loads runtime configuration for the PetAlert CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML or JSON file, chosen with --config or found as
//     ./petalert.yaml / ./petalert.json.
//  3. Environment variables with the PETALERT_ prefix, dots replaced by
//     underscores (PETALERT_SERVER_URL, PETALERT_STORAGE_BACKEND, ...).
//  4. Command-line flags that were set explicitly.
//
// # File schema
//
//	server:
//	  url: http://localhost:5000/api
//	  timeout: 30s
//	storage:
//	  backend: sqlite        # or redis
//	  path: petalert.db
//	  redis_addr: localhost:6379
//	  redis_prefix: "petalert:metadata:"
//	log:
//	  level: error
//	metrics:
//	  addr: ""               # e.g. 127.0.0.1:9100 to expose /metrics
package config
