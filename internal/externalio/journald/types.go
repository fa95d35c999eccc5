package journald

import (
	"net/http"
)

type OutModule struct {
	sink       *http.Client
	url        string
	identifier string
	facility   uint16
	bootID     string
}

// Single export format field
type field struct {
	key string
	val string
}
