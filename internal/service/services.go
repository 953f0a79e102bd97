package service

import (
	"github.com/avetra/bizsync/internal/adapter"
	"github.com/avetra/bizsync/internal/config"
	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/store"
)

type Services struct {
	Engine   SyncEngine
	Instance InstanceService
	AppInfo  AppInfoService
}

// NewServices wires the full service layer: the session engine driving
// syncs against the peer, and the instance service answering the peer's
// own sync requests.
func NewServices(registry store.SessionRegistry, local store.EntityStore, remote adapter.RemoteInstance, cfg config.StructuredConfig, version string, log *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(version)
	if err != nil {
		return nil, err
	}

	strategies := NewStrategyFactory(local, remote, cfg.Sync, "")
	reconciler := NewReconciler(cfg.Sync.Rules, cfg.Sync.EntityOrder)
	engine := NewEngine(registry, local, remote, strategies, reconciler, cfg.Sync, cfg.Workers, log)

	return &Services{
		Engine:   engine,
		Instance: NewInstanceService(local, cfg.Sync.EntityOrder, ""),
		AppInfo:  appInfo,
	}, nil
}
