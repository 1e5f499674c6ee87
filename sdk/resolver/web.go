package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"regexp"
	"strings"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/jxo-me/cfddns/internal/util"
	"github.com/pkg/errors"
)

// Ipv4Reg IPv4正则
var Ipv4Reg = regexp.MustCompile(`((25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])\.){3,3}(25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])`)

// Ipv6Reg IPv6正则
var Ipv6Reg = regexp.MustCompile(`((([0-9A-Fa-f]{1,4}:){7}([0-9A-Fa-f]{1,4}|:))|(([0-9A-Fa-f]{1,4}:){6}(:[0-9A-Fa-f]{1,4}|((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3})|:))|(([0-9A-Fa-f]{1,4}:){5}(((:[0-9A-Fa-f]{1,4}){1,2})|:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3})|:))|(([0-9A-Fa-f]{1,4}:){4}(((:[0-9A-Fa-f]{1,4}){1,3})|((:[0-9A-Fa-f]{1,4})?:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(([0-9A-Fa-f]{1,4}:){3}(((:[0-9A-Fa-f]{1,4}){1,4})|((:[0-9A-Fa-f]{1,4}){0,2}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(([0-9A-Fa-f]{1,4}:){2}(((:[0-9A-Fa-f]{1,4}){1,5})|((:[0-9A-Fa-f]{1,4}){0,3}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(([0-9A-Fa-f]{1,4}:){1}(((:[0-9A-Fa-f]{1,4}){1,6})|((:[0-9A-Fa-f]{1,4}){0,4}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(:(((:[0-9A-Fa-f]{1,4}){1,7})|((:[0-9A-Fa-f]{1,4}){0,5}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:)))`)

// WebResolver asks an HTTP "what is my IP" service for the public address.
// The service must answer 200 with the address somewhere in the body.
type WebResolver struct {
	url    string
	typ    consts.RecordType
	client *http.Client
}

func NewWebResolver(url string, typ consts.RecordType, client *http.Client) *WebResolver {
	if client == nil {
		client = util.CreateHTTPClient()
	}
	return &WebResolver{url: url, typ: typ, client: client}
}

func (r *WebResolver) String() string {
	return r.url
}

func (r *WebResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return netip.Addr{}, errors.Wrapf(err, "build request for %s", r.url)
	}
	req.Header.Set(consts.HeaderCacheControl, "no-cache")

	resp, err := r.client.Do(req)
	if err != nil {
		return netip.Addr{}, &ddns.NetworkError{Op: "resolve " + string(r.typ), Err: err}
	}
	body, err := util.ReadBody(resp)
	if err != nil {
		return netip.Addr{}, &ddns.NetworkError{Op: "resolve " + string(r.typ), Err: errors.Wrap(err, "read response")}
	}
	if resp.StatusCode != http.StatusOK {
		return netip.Addr{}, &ddns.NetworkError{
			Op:  "resolve " + string(r.typ),
			Err: errors.Errorf("%s answered %s", r.url, resp.Status),
		}
	}
	return ParseAddr(string(body), r.typ)
}

// ParseAddr extracts the first address of the family matching typ from s.
func ParseAddr(s string, typ consts.RecordType) (netip.Addr, error) {
	s = strings.TrimSpace(s)
	addr, err := netip.ParseAddr(firstLine(s))
	if err != nil {
		reg := Ipv4Reg
		if typ == consts.RecordTypeAAAA {
			reg = Ipv6Reg
		}
		found := reg.FindString(s)
		if found == "" {
			return netip.Addr{}, errors.Errorf("no %s address found in %q", family(typ), truncate(s, 64))
		}
		if addr, err = netip.ParseAddr(found); err != nil {
			return netip.Addr{}, errors.Wrapf(err, "parse %q", found)
		}
	}
	return checkFamily(addr, typ)
}

func checkFamily(addr netip.Addr, typ consts.RecordType) (netip.Addr, error) {
	addr = addr.WithZone("")
	switch typ {
	case consts.RecordTypeA:
		addr = addr.Unmap()
		if !addr.Is4() {
			return netip.Addr{}, errors.Errorf("%s is not an IPv4 address", addr)
		}
	case consts.RecordTypeAAAA:
		if !addr.Is6() || addr.Is4In6() {
			return netip.Addr{}, errors.Errorf("%s is not an IPv6 address", addr)
		}
	default:
		return netip.Addr{}, errors.Errorf("unsupported record type %q", typ)
	}
	return addr, nil
}

func family(typ consts.RecordType) string {
	if typ == consts.RecordTypeAAAA {
		return "IPv6"
	}
	return "IPv4"
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
