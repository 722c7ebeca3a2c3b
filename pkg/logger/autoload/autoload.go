// Package autoload initialises the global logger from LOG_* variables when
// imported for side effects.
package autoload

import (
	configx "github.com/tanpawarit/hcp-crm-assistant/pkg/config"
	logx "github.com/tanpawarit/hcp-crm-assistant/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
