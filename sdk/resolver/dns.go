package resolver

import (
	"context"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/miekg/dns"
	"github.com/pkg/errors"
)

const defaultDNSTimeout = 5 * time.Second

// DNSResolver learns the public address from a DNS server that echoes the
// querier, e.g. dns://resolver1.opendns.com/myip.opendns.com or
// dns://ns1.google.com/o-o.myaddr.l.google.com?type=txt.
type DNSResolver struct {
	server string
	name   string
	qtype  uint16
	typ    consts.RecordType
	client *dns.Client
}

func NewDNSResolver(u *url.URL, typ consts.RecordType) (*DNSResolver, error) {
	if u.Hostname() == "" {
		return nil, errors.Errorf("dns check url %q has no server", u.String())
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return nil, errors.Errorf("dns check url %q has no query name", u.String())
	}
	port := u.Port()
	if port == "" {
		port = "53"
	}

	r := &DNSResolver{
		server: net.JoinHostPort(u.Hostname(), port),
		name:   dns.Fqdn(name),
		typ:    typ,
		client: &dns.Client{Net: "udp", Timeout: defaultDNSTimeout},
	}
	switch strings.ToLower(u.Query().Get("type")) {
	case "", "a", "aaaa":
		r.qtype = dns.TypeA
		if typ == consts.RecordTypeAAAA {
			r.qtype = dns.TypeAAAA
		}
	case "txt":
		r.qtype = dns.TypeTXT
	default:
		return nil, errors.Errorf("dns check url %q: unsupported query type %q", u.String(), u.Query().Get("type"))
	}
	if strings.EqualFold(u.Query().Get("net"), "tcp") {
		r.client.Net = "tcp"
	}
	return r, nil
}

func (r *DNSResolver) String() string {
	return "dns://" + r.server + "/" + r.name
}

func (r *DNSResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	m := new(dns.Msg)
	m.SetQuestion(r.name, r.qtype)
	m.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return netip.Addr{}, &ddns.NetworkError{Op: "resolve " + string(r.typ), Err: err}
	}
	if in.Rcode != dns.RcodeSuccess {
		return netip.Addr{}, &ddns.NetworkError{
			Op:  "resolve " + string(r.typ),
			Err: errors.Errorf("%s answered %s for %s", r.server, dns.RcodeToString[in.Rcode], r.name),
		}
	}

	for _, rr := range in.Answer {
		var candidate string
		switch v := rr.(type) {
		case *dns.A:
			candidate = v.A.String()
		case *dns.AAAA:
			candidate = v.AAAA.String()
		case *dns.TXT:
			candidate = strings.Join(v.Txt, "")
		default:
			continue
		}
		if addr, err := ParseAddr(candidate, r.typ); err == nil {
			return addr, nil
		}
	}
	return netip.Addr{}, errors.Errorf("%s returned no %s address for %s", r.server, family(r.typ), r.name)
}
