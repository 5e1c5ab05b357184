package metadata

import "net/http"

// Option configures a metadata client's HTTP transport.
type Option struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return Option{httpClient: client}
}

func (o Option) apply(target **http.Client) {
	if o.httpClient != nil {
		*target = o.httpClient
	}
}
