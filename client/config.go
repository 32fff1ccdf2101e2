package client

import "fmt"

// Config is everything needed to reach and authenticate against one Mumble
// server. It is filled by the calling binary (env loading lives there, not
// here).
type Config struct {
	ServerAddress string
	ServerPort    int
	// TLSServerName overrides the SNI value; empty means ServerAddress.
	TLSServerName string
	// InsecureSkipVerify disables certificate verification entirely. Only
	// meant for self-signed development servers; the connection is loudly
	// logged as unverified.
	InsecureSkipVerify bool
	Username           string
	Password           *string
}

func (c Config) ConnectAddress() string {
	return fmt.Sprintf("%s:%d", c.ServerAddress, c.ServerPort)
}
