// Package config loads runtime configuration for the MyMoment terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "backend": "sqlite",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "data_dir": "~/.mymoment",
//	  "log_file": "",
//	  "geoapify_api_key": "",
//	  "online_check_interval": "3s",
//	  "seed": true
//	}
package config
