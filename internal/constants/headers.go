package constant

const (
	// HeaderID is the request identifier header key.
	HeaderID = "X-Request-Id"
	// HeaderUserAgent is the HTTP User-Agent header key.
	HeaderUserAgent = "User-Agent"
	// HeaderReferer is the HTTP Referer header key.
	HeaderReferer = "Referer"
	// HeaderContentType is the HTTP Content-Type header key.
	HeaderContentType = "Content-Type"
)
