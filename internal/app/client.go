package app

import (
	"fmt"

	"github.com/samvad-hq/sdi-client/internal/config"
	"github.com/samvad-hq/sdi-client/internal/logger"
	"github.com/samvad-hq/sdi-client/pkg/sdi"
)

// NewSDIClient builds the interchange client described by cfg.
func NewSDIClient(cfg *config.Config, log logger.Logger) (*sdi.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return sdi.New(cfg.Endpoint, cfg.Username, cfg.APIToken,
		sdi.WithTimeout(cfg.Timeout),
		sdi.WithConnectTimeout(cfg.ConnectTimeout),
		sdi.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		sdi.WithLogger(log),
	), nil
}
