package resolver

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jxo-me/cfddns/consts"
	iResolver "github.com/jxo-me/cfddns/core/resolver"
	"github.com/pkg/errors"
)

// New picks a resolver implementation from the check url scheme.
func New(checkURL string, typ consts.RecordType, client *http.Client) (iResolver.IResolver, error) {
	u, err := url.Parse(checkURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse check url %q", checkURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewWebResolver(checkURL, typ, client), nil
	case "dns":
		r, err := NewDNSResolver(u, typ)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, errors.Errorf("check url %q: unsupported scheme %q", checkURL, u.Scheme)
	}
}
