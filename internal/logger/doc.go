// Package logger provides leveled, component-scoped logging for the
// extraction engine.
//
// Each engine component (client, cache, ratelimit, signature, innertube,
// extract) logs through its own ComponentLogger; components are disabled
// by default except app, and can be switched on individually via config
// or the YTX_LOG environment variable:
//
//	YTX_LOG=client,signature YTX_LOG_LEVEL=DEBUG ytx video <url>
//
// Output is plain text by default; YTX_LOG_FORMAT=json switches to one
// JSON object per line.
package logger
