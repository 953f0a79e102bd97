package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-r remote instance base address
//	-d session registry database DSN
//	-l local entity database DSN
//	-c/-config json file path with configs
//	-pair-key sync pair identifier
//	-entity-order comma-separated entity dependency order
//	-batch-size incremental batch size
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var remoteAddress string
	var registryDSN string
	var localDSN string
	var jsonConfigPath string
	var pairKey string
	var entityOrder string
	var batchSize int
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&remoteAddress, "r", "", "Remote instance base address")
	flag.StringVar(&registryDSN, "d", "", "Session registry database DSN")
	flag.StringVar(&localDSN, "l", "", "Local entity database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&pairKey, "pair-key", "", "Sync pair identifier")
	flag.StringVar(&entityOrder, "entity-order", "", "Comma-separated entity dependency order")
	flag.IntVar(&batchSize, "batch-size", 0, "Incremental batch size")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	var order []string
	if entityOrder != "" {
		order = strings.Split(entityOrder, ",")
	}

	return &StructuredConfig{
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			Registry: DB{DSN: registryDSN},
			Local:    DB{DSN: localDSN},
		},
		Adapter: Adapter{
			RemoteAddress: remoteAddress,
		},
		Sync: Sync{
			PairKey:     pairKey,
			EntityOrder: order,
			BatchSize:   batchSize,
		},
		Workers:      Workers{},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
