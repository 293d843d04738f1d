// Package config loads apiclient configuration.
//
// It uses Viper to read config.yml and godotenv to read .env files, then
// overlays environment variables carrying the APICLIENT_ prefix
// (APICLIENT_HTTP_TIMEOUT -> http.timeout). APP_ENV selects the deployment
// mode and maps onto the "environment" key.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("apiclient", &cfg, config.WithConfigFile(path))
package config
