package ports

import "fmt"

// FetchError reports a failed page or image retrieval: network failure,
// timeout, or a non-success HTTP status (Status is zero when the request
// never produced a response).
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PublishKind classifies publisher-side failures.
type PublishKind int

const (
	KindPlatform PublishKind = iota
	KindAuth
	KindRateLimit
)

func (k PublishKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "platform"
	}
}

// PublishError reports a failed submission to a platform.
type PublishError struct {
	Platform string
	Kind     PublishKind
	Status   int
	Err      error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s publish (%s): %v", e.Platform, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s publish (%s): status %d", e.Platform, e.Kind, e.Status)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
