package executor

import (
	"github.com/flowforge/engine/pkg/config"
	"github.com/flowforge/engine/pkg/httpclient"
)

// sharedClients caches built *httpclient.Client values by name so repeated
// http/llm node executions reuse one transport's connection pool instead of
// dialing fresh on every call.
var sharedClients = httpclient.NewRegistry()

// getOrBuildClient returns the cached client registered under name,
// building and registering one from cfg via engineCfg's security settings
// if it isn't cached yet. A registration race just means the losing
// goroutine's client is discarded in favor of whichever won Register first.
func getOrBuildClient(engineCfg *config.Config, name string, cfg *httpclient.ClientConfig) (*httpclient.Client, error) {
	if client, err := sharedClients.Get(name); err == nil {
		return client, nil
	}

	cfg.Name = name
	builder := httpclient.NewBuilder(engineCfg)
	client, err := builder.Build(cfg)
	if err != nil {
		return nil, err
	}

	if err := sharedClients.Register(name, client); err != nil {
		if cached, getErr := sharedClients.Get(name); getErr == nil {
			return cached, nil
		}
	}
	return client, nil
}
