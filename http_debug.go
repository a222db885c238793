package recallrai

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog"
)

// debugTransport logs full request and response dumps.
//
// Enable with RECALLRAI_DEBUG=true, DEBUG=true or WithDebugLogging(true).
// Dumps go to the client's logger (see WithLogger).
// Bodies (user messages, metadata) are logged verbatim, so keep it out of
// production. It sits beneath apiKeyTransport and never sees the
// credential headers.
//
//	export RECALLRAI_DEBUG=true
//	go run main.go  # every request is now dumped at debug level
type debugTransport struct {
	base http.RoundTripper
	log  zerolog.Logger
}

// CloseIdleConnections forwards to the pooled transport.
func (dt *debugTransport) CloseIdleConnections() { closeIdle(dt.base) }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := dt.log
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether RECALLRAI_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("RECALLRAI_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
