package fund

// Status reports how a page fetch went.
type Status int

// Fetch outcomes.
const (
	StatusFailed Status = iota
	StatusOK
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "failed"
}

// Page is a fetched fund page. It is not modified after creation.
type Page struct {
	URL    string
	HTML   string
	Status Status
}

// Failed returns a page for a URL that could not be fetched.
func Failed(url string) Page {
	return Page{URL: url, Status: StatusFailed}
}
