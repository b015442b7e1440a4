package runner

import (
	"context"
	"fmt"
	"net"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/shared/constants"
	"TickerBench/pkg/validator"

	"github.com/miekg/dns"
)

// Resolution is the DNS pre-flight outcome for one endpoint host.
type Resolution struct {
	Target     string        `json:"target"`
	Host       string        `json:"host"`
	Server     string        `json:"server"`
	RecordType string        `json:"record_type"`
	Records    []string      `json:"records"`
	RTT        time.Duration `json:"rtt"`
	TTL        uint32        `json:"ttl,omitempty"`
	Error      string        `json:"error,omitempty"`
}

type DNSRunner struct {
	server  string
	timeout time.Duration
}

func NewDNSRunner(server string, timeout time.Duration) *DNSRunner {
	if server == "" {
		server = constants.DefaultDNSServer
	}
	if timeout <= 0 {
		timeout = constants.DNSTimeout
	}

	return &DNSRunner{
		server:  server,
		timeout: timeout,
	}
}

// ResolveEndpoint looks up the host of endpoint.URL. Failures are reported
// in Resolution.Error, like probe failures.
func (r *DNSRunner) ResolveEndpoint(ctx context.Context, endpoint domain.EndpointDescriptor, recordType string) Resolution {
	host := validator.HostOf(endpoint.URL)

	res := Resolution{
		Target:     endpoint.Name,
		Host:       host,
		Server:     r.server,
		RecordType: recordType,
	}

	if host == "" {
		res.Error = "endpoint URL has no host"
		return res
	}

	if ip := net.ParseIP(host); ip != nil {
		res.Records = []string{ip.String()}
		return res
	}

	records, rtt, ttl, err := r.Resolve(ctx, host, recordType)
	res.RTT = rtt
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Records = records
	res.TTL = ttl
	return res
}

func (r *DNSRunner) Resolve(ctx context.Context, host, recordType string) ([]string, time.Duration, uint32, error) {
	client := &dns.Client{
		Timeout: r.timeout,
	}

	msg := dns.Msg{}
	msg.SetQuestion(dns.Fqdn(host), recordTypeToDNSType(recordType))

	response, rtt, err := client.ExchangeContext(ctx, &msg, r.server)
	if err != nil {
		return nil, rtt, 0, fmt.Errorf("DNS query failed: %w", err)
	}

	if response.Rcode != dns.RcodeSuccess {
		return nil, rtt, 0, fmt.Errorf("DNS error: %s", dns.RcodeToString[response.Rcode])
	}

	records := make([]string, 0, len(response.Answer))
	for _, answer := range response.Answer {
		switch rr := answer.(type) {
		case *dns.A:
			records = append(records, rr.A.String())
		case *dns.AAAA:
			records = append(records, rr.AAAA.String())
		case *dns.CNAME:
			records = append(records, rr.Target)
		default:
			records = append(records, answer.String())
		}
	}

	return records, rtt, extractMinTTL(response.Answer), nil
}

func recordTypeToDNSType(recordType string) uint16 {
	switch recordType {
	case "AAAA":
		return dns.TypeAAAA
	case "CNAME":
		return dns.TypeCNAME
	default:
		return dns.TypeA
	}
}

func extractMinTTL(answers []dns.RR) uint32 {
	if len(answers) == 0 {
		return 0
	}

	minTTL := answers[0].Header().Ttl
	for _, answer := range answers[1:] {
		if answer.Header().Ttl < minTTL {
			minTTL = answer.Header().Ttl
		}
	}
	return minTTL
}
