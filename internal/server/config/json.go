package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/flagx"
)

// JsonConfig is the intermediate DTO used only for reading JSON
// configuration files. StoreTimeoutSeconds is an integer so operators do
// not have to spell Go duration strings.
type JsonConfig struct {
	EndpointAddrHTTP    string `json:"endpoint_addr_http"`
	DatabaseDSN         string `json:"database_dsn"`
	SecretKey           string `json:"secret_key"`
	StoreTimeoutSeconds int    `json:"store_timeout_seconds"`
	S3AccessKey         string `json:"s3_access_key"`
	S3SecretKey         string `json:"s3_secret_key"`
	S3Bucket            string `json:"s3_bucket"`
	S3Region            string `json:"s3_region"`
	S3BaseEndpoint      string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Missing flag means no file is
// loaded; an unreadable or malformed file panics, since the server cannot
// start half-configured.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	if c.StoreTimeoutSeconds > 0 {
		config.StoreTimeout = time.Duration(c.StoreTimeoutSeconds) * time.Second
	}
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
