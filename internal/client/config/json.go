package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mymoment/internal/flagx"
	"github.com/dmitrijs2005/mymoment/internal/timex"
)

// JsonConfig is the file form of Config. Intervals use timex.Duration, so
// they can be written as "3s" or as integer nanoseconds. Absent fields keep
// the value they had before the file was read.
type JsonConfig struct {
	Backend             *string         `json:"backend"`
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	DataDir             *string         `json:"data_dir"`
	LogFile             *string         `json:"log_file"`
	GeoapifyAPIKey      *string         `json:"geoapify_api_key"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	Seed                *bool           `json:"seed"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Without either flag it does nothing. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.Backend, jc.Backend)
	setIf(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.LogFile, jc.LogFile)
	setIf(&cfg.GeoapifyAPIKey, jc.GeoapifyAPIKey)
	setIf(&cfg.Seed, jc.Seed)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
