package api

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

type Config struct {
	Addr            string        `default:":8000"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `split_words:"true" default:"120s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: http addr is required", contractx.ErrValidation)
	}
	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
	return nil
}
