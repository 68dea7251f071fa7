package fetch

import "fmt"

// NetworkError reports a failure to reach or read from the package host.
// The fetcher makes a single attempt and surfaces the failure; retry and
// timeout policy belong to the HTTP client it was built with.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a downloaded payload whose digest does not
// match the digest published in the release manifest. The scratch file
// has already been removed by the time callers see this error.
type IntegrityError struct {
	URL  string
	Want string
	Got  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s:\nactual:   %s\nexpected: %s", e.URL, e.Got, e.Want)
}
