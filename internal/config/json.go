package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avetra/bizsync/models"
)

// StructuredJSONConfig mirrors StructuredConfig with JSON-friendly field
// types. The JSON file is the only source able to carry structured values:
// the expected-difference rule set and the schema-revision rename map.
type StructuredJSONConfig struct {
	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Storage struct {
		Registry struct {
			DSN string `json:"dsn"`
		} `json:"registry,omitempty"`
		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		RemoteAddress  string   `json:"remote_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Sync struct {
		PairKey         string                       `json:"pair_key"`
		EntityOrder     []string                     `json:"entity_order"`
		BatchSize       int                          `json:"batch_size"`
		MaxBatchRetries int                          `json:"max_batch_retries"`
		Phases          map[string]Duration          `json:"phase_timeouts"`
		Rules           []models.DifferenceRule      `json:"rules"`
		Renames         map[string]map[string]string `json:"renames"`
	} `json:"sync,omitempty"`

	Workers struct {
		LeaseTTL          Duration `json:"lease_ttl"`
		HeartbeatInterval Duration `json:"heartbeat_interval"`
		WatchdogInterval  Duration `json:"watchdog_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Storage: Storage{
			Registry: DB{DSN: jsonCfg.Storage.Registry.DSN},
			Local:    DB{DSN: jsonCfg.Storage.Local.DSN},
		},
		Adapter: Adapter{
			RemoteAddress:  jsonCfg.Adapter.RemoteAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Sync: Sync{
			PairKey:         jsonCfg.Sync.PairKey,
			EntityOrder:     jsonCfg.Sync.EntityOrder,
			BatchSize:       jsonCfg.Sync.BatchSize,
			MaxBatchRetries: jsonCfg.Sync.MaxBatchRetries,
			Phases: PhaseBudgets{
				Backup:   time.Duration(jsonCfg.Sync.Phases["backup"]),
				Transfer: time.Duration(jsonCfg.Sync.Phases["transfer"]),
				Convert:  time.Duration(jsonCfg.Sync.Phases["convert"]),
				Restore:  time.Duration(jsonCfg.Sync.Phases["restore"]),
				Verify:   time.Duration(jsonCfg.Sync.Phases["verify"]),
			},
			Rules:   jsonCfg.Sync.Rules,
			Renames: jsonCfg.Sync.Renames,
		},
		Workers: Workers{
			LeaseTTL:          time.Duration(jsonCfg.Workers.LeaseTTL),
			HeartbeatInterval: time.Duration(jsonCfg.Workers.HeartbeatInterval),
			WatchdogInterval:  time.Duration(jsonCfg.Workers.WatchdogInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
