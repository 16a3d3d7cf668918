package bridge

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_cadterm._tcp"

// Announcement advertises a listening bridge on the local network.
type Announcement struct {
	server *mdns.Server
}

func Announce(port int) (*Announcement, error) {
	host, _ := os.Hostname()
	if host == "" {
		host = "cadterm"
	}
	info := []string{"cadterm shape bridge", "path=/ws"}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}
	return &Announcement{server: server}, nil
}

func (a *Announcement) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}
