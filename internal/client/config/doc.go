// Package config loads runtime configuration for the HireHub CLI.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. HIREHUB_API_URL from the environment, falling back to .env.local.
//  3. Optional config file selected with -c or -config (JSON, or YAML when
//     the name ends in .yaml/.yml).
//  4. Command-line flags -a -t -d -i -r -l.
//
// # File schema
//
//	api_base_url: http://localhost:5000/api
//	request_timeout: 10s
//	store_path: hirehub.db
//	notification_poll_interval: 30s
//	requests_per_second: 5
//	log_level: debug
//	log_file: hirehub.log
package config
