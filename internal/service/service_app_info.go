package service

import (
	"context"
	"errors"
)

// ErrVersionIsNotSpecified means the daemon was built without a version
// string.
var ErrVersionIsNotSpecified = errors.New("application version is not specified")

// AppInfoService exposes build metadata to the version endpoint.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

type appInfoService struct {
	appVersion string
}

func NewAppInfoService(version string) (AppInfoService, error) {
	if version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{appVersion: version}, nil
}

func (s *appInfoService) GetAppVersion(_ context.Context) string {
	return s.appVersion
}
