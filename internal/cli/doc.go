// Package cli provides command-line interface setup and configuration
// for the geet application. It handles flag parsing, command creation,
// and configuration management using cobra, viper and a .env file.
package cli
