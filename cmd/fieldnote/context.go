package main

import (
	"strings"
	"sync"

	"fieldnote/internal/artifacts"
	"fieldnote/internal/config"
	"fieldnote/internal/logging"
	"fieldnote/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// openStores opens the database and artifact store directly. List and record
// commands use this path so they work without a running daemon; SQLite's
// busy-retry handling covers the case where one is.
func (c *commandContext) openStores() (*config.Config, *store.Store, *artifacts.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	art, err := artifacts.NewStore(cfg.Paths.UploadsDir, logging.NewNop())
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}
	return cfg, st, art, nil
}

// apiBaseURL builds the daemon endpoint from the configured bind address.
func (c *commandContext) apiBaseURL() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return "http://" + strings.TrimSpace(cfg.Paths.APIBind), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
