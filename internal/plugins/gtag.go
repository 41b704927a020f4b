package plugins

import (
	"regexp"

	"git.home.luguber.info/inful/docnav/internal/literal"
)

var measurementID = regexp.MustCompile(`^(G-[A-Z0-9]{4,}|UA-\d{4,}-\d+)$`)

// Gtag is the google-gtag plugin configuration.
type Gtag struct {
	ID string
}

// DecodeGtag checks the analytics measurement id.
func DecodeGtag(opts any) (*Gtag, error) {
	obj, err := optionsObject(NameGtag, opts)
	if err != nil {
		return nil, err
	}
	v, ok := obj.Get("ga")
	if !ok {
		return nil, optionsError(NameGtag, "ga is required")
	}
	id, ok := v.(string)
	if !ok {
		return nil, optionsError(NameGtag, "ga must be a string, got %s", literal.TypeName(v))
	}
	if !measurementID.MatchString(id) {
		return nil, optionsError(NameGtag, "%q is not a G-XXXX or UA-XXXX-N measurement id", id)
	}
	return &Gtag{ID: id}, nil
}
