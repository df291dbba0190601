// Package log builds the slog loggers used by corpuscrawl.
//
// SecureHandler wraps any slog.Handler and masks secrets before records
// reach the output:
//   - attributes whose key names a credential (cookie, password, token)
//   - values that look like bearer, basic or JWT credentials
//   - credentials carried inside URLs: the userinfo part and query
//     parameters such as token, key, password, session and sig
//
// Crawled URLs are logged on every fetch, so the URL rules apply to every
// string and error value, including URLs embedded in error messages.
//
//	logger := log.NewSecureLogger(os.Stdout, verbose)
//	logger.Info("page saved", "url", "https://user:pw@example.com/?token=x")
//	// url=https://***REDACTED***@example.com/?token=***REDACTED***
package log
