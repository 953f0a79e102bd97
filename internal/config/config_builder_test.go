package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildable returns a minimal config layer that passes validation once
// defaults are applied.
func buildable() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{RemoteAddress: "http://remote:8080"},
		Sync:    Sync{EntityOrder: []string{"category", "product"}},
	}
}

func TestBuild_MergesLayersAndAppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		buildable(),
		&StructuredConfig{Server: Server{HTTPAddress: "0.0.0.0:9999"}},
	)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.Server.HTTPAddress)
	// defaults fill everything the layers left unset
	assert.Equal(t, 100, cfg.Sync.BatchSize)
	assert.Equal(t, 3, cfg.Sync.MaxBatchRetries)
	assert.Equal(t, "http://remote:8080", cfg.Sync.PairKey)
	assert.Equal(t, 90*time.Second, cfg.Workers.LeaseTTL)
	assert.Equal(t, 30*time.Second, cfg.Workers.HeartbeatInterval)
	assert.Equal(t, 30*time.Minute, cfg.Sync.Phases.Transfer)
}

func TestBuild_EarlierLayersWin(t *testing.T) {
	// mergo.Merge keeps already-set fields, so the first layer that sets a
	// value owns it.
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Server: Server{HTTPAddress: "first:1111"}},
		&StructuredConfig{Server: Server{HTTPAddress: "second:2222"}},
	)
	b.configs[0].Adapter = buildable().Adapter
	b.configs[0].Sync = buildable().Sync

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "first:1111", cfg.Server.HTTPAddress)
}

func TestBuild_RejectsEmptyEntityOrder(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Adapter: Adapter{RemoteAddress: "http://remote:8080"},
	})

	cfg, err := b.build()

	require.ErrorIs(t, err, ErrInvalidSyncConfigs)
	assert.Nil(t, cfg)
}

func TestBuild_RejectsHeartbeatNotShorterThanLease(t *testing.T) {
	layer := buildable()
	layer.Workers = Workers{LeaseTTL: 10 * time.Second, HeartbeatInterval: 10 * time.Second}

	b := newConfigBuilder()
	b.configs = append(b.configs, layer)

	_, err := b.build()

	require.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NetAddress
		wantErr bool
	}{
		{name: "localhost", input: "localhost:8080", want: NetAddress{Host: "localhost", Port: 8080}},
		{name: "ip", input: "127.0.0.1:9090", want: NetAddress{Host: "127.0.0.1", Port: 9090}},
		{name: "missing port", input: "localhost", wantErr: true},
		{name: "bad port", input: "localhost:abc", wantErr: true},
		{name: "zero port", input: "localhost:0", wantErr: true},
		{name: "bad host", input: "not-an-ip:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}
