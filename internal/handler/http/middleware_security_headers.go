package http

import "github.com/unrolled/secure"

const contentSecurityPolicy = "default-src 'self';base-uri 'self';font-src 'self' https: data:;form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';script-src 'self' https://js.stripe.com;script-src-attr 'none';style-src 'self' https: 'unsafe-inline';upgrade-insecure-requests"

// isolationHeaders complete the secure set with the browser isolation and
// legacy download headers.
var isolationHeaders = [][2]string{
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Origin-Agent-Cluster", "?1"},
	{"X-DNS-Prefetch-Control", "off"},
	{"X-Download-Options", "noopen"},
	{"X-Permitted-Cross-Domain-Policies", "none"},
}

// securityHeadersStage decorates every response with protective headers.
// Without allowed hosts or an SSL redirect configured, secure never stops
// a request.
type securityHeadersStage struct {
	secure middlewareStage
}

func newSecurityHeadersStage() *securityHeadersStage {
	s := secure.New(secure.Options{
		STSSeconds:              15552000,
		STSIncludeSubdomains:    true,
		ForceSTSHeader:          true,
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		BrowserXssFilter:        true,
		CustomBrowserXssValue:   "0",
		ContentSecurityPolicy:   contentSecurityPolicy,
		ReferrerPolicy:          "no-referrer",
	})

	return &securityHeadersStage{secure: middlewareStage{middleware: s.Handler}}
}

func (s *securityHeadersStage) Process(x *Exchange) Outcome {
	h := x.Writer.Header()
	for _, kv := range isolationHeaders {
		h.Set(kv[0], kv[1])
	}
	h.Del("X-Powered-By")

	return s.secure.Process(x)
}
