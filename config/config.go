// config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server          ServerConfiguration
	Auth            AuthConfiguration
	RateLimit       RateLimitConfiguration
	Neo4j           DatabaseConfiguration
	Redis           RedisConfiguration
	Elasticsearch   ElasticsearchConfiguration
	Equipment       EquipmentConfiguration
	AccessRelease   AccessReleaseConfiguration
	Sweeper         SweeperConfiguration
	Synchronization SynchronizationConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// AuthConfiguration stores the token verification settings
type AuthConfiguration struct {
	Secret string
}

// RateLimitConfiguration stores the per-client request allowance
type RateLimitConfiguration struct {
	Requests int
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	DefaultCacheTTL string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// EquipmentConfiguration stores settings for the equipment gateway
type EquipmentConfiguration struct {
	CallTimeout       string
	FanoutConcurrency int
}

// AccessReleaseConfiguration stores access release validity settings
type AccessReleaseConfiguration struct {
	DefaultValidityDays int
}

// SweeperConfiguration stores the expiration sweeper schedule
type SweeperConfiguration struct {
	IntervalHours int
}

// SynchronizationConfiguration stores bulk synchronization job settings
type SynchronizationConfiguration struct {
	BatchSize int
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("auth.secret", "change-me")
	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("log.dir", "logging")
	viper.SetDefault("equipment.callTimeout", "10s")
	viper.SetDefault("equipment.fanoutConcurrency", 10)
	viper.SetDefault("accessrelease.defaultValidityDays", 30)
	viper.SetDefault("sweeper.intervalHours", 24)
	viper.SetDefault("synchronization.batchSize", 50)

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}
