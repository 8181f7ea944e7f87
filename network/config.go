package network

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

// Role defines the network topology role
type Role uint8

const (
	RoleNone   Role = iota // Network disabled
	RoleClient             // Connects to server
	RoleServer             // Accepts connections
	RoleHost               // P2P: hosting peer
	RolePeer               // P2P: joining peer
)

// ParseRole maps a configured role name to a network role
// "local" and "" disable networking
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(name) {
	case "", "local", "none":
		return RoleNone, nil
	case "client":
		return RoleClient, nil
	case "server":
		return RoleServer, nil
	case "host":
		return RoleHost, nil
	case "peer":
		return RolePeer, nil
	default:
		return RoleNone, fmt.Errorf("unknown network role %q", name)
	}
}

// SessionRole maps the network role to the session role
// Accepting sides own simulation truth; a host also plays locally
func (r Role) SessionRole() core.Role {
	switch r {
	case RoleServer:
		return core.RoleAuthority
	case RoleClient, RolePeer:
		return core.RoleObserver
	default:
		return core.RoleAuthorityObserver
	}
}

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	case RoleHost:
		return "host"
	case RolePeer:
		return "peer"
	default:
		return "none"
	}
}

// Config holds transport settings
// Role, Address and TLS come from flags; timings and buffers can be tuned from the environment
type Config struct {
	Role    Role
	Address string
	TLS     *tls.Config // nil means plaintext

	MaxPeers          int           `env:"BREAKOUT_NET_MAX_PEERS" envDefault:"8"`
	ConnectTimeout    time.Duration `env:"BREAKOUT_NET_CONNECT_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"BREAKOUT_NET_READ_TIMEOUT" envDefault:"30s"` // Silence longer than this drops the peer
	WriteTimeout      time.Duration `env:"BREAKOUT_NET_WRITE_TIMEOUT" envDefault:"5s"`
	HeartbeatInterval time.Duration `env:"BREAKOUT_NET_HEARTBEAT" envDefault:"10s"`
	ReadBufferSize    int           `env:"BREAKOUT_NET_READ_BUFFER" envDefault:"65536"`
	SendQueueSize     int           `env:"BREAKOUT_NET_SEND_QUEUE" envDefault:"256"`
}

// DefaultConfig returns the tag defaults, ignoring the environment
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("network defaults: %v", err))
	}
	return cfg
}

// LoadConfig reads tuning overrides from the environment for the given role and address
func LoadConfig(role Role, addr string) (*Config, error) {
	cfg := &Config{Role: role, Address: addr}
	if err := env.Parse(cfg); err != nil {
		return nil, core.Wrap(core.CodeConfiguration, "network env", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the peer loops cannot run with
func (c *Config) Validate() error {
	switch {
	case c.MaxPeers <= 0 || c.MaxPeers > parameter.MaxPeers:
		return core.Errorf(core.CodeConfiguration, "max peers must be in [1, %d], got %d", parameter.MaxPeers, c.MaxPeers)
	case c.ConnectTimeout <= 0:
		return core.Errorf(core.CodeConfiguration, "connect timeout must be positive, got %v", c.ConnectTimeout)
	case c.HeartbeatInterval > 0 && c.ReadTimeout > 0 && c.HeartbeatInterval >= c.ReadTimeout:
		return core.Errorf(core.CodeConfiguration, "heartbeat %v must be shorter than read timeout %v", c.HeartbeatInterval, c.ReadTimeout)
	case c.ReadBufferSize < HeaderSize || c.SendQueueSize <= 0:
		return core.Errorf(core.CodeConfiguration, "buffer sizes too small")
	}
	return nil
}

// DebugConfig returns plaintext defaults for local testing
func DebugConfig(role Role, addr string) *Config {
	cfg := DefaultConfig()
	cfg.Role = role
	cfg.Address = addr
	return cfg
}
