// Package config loads runtime configuration for the socialhub CLI.
//
// Sources, lowest precedence first: built-in defaults, a JSON file selected
// with -c/-config, SOCIALHUB_* environment variables (optionally from a
// dotenv file given with -env), then the -a, -s, -t and -i flags.
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "state_db_path": "socialhub.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "30s"
//	}
package config
