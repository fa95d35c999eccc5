package beats

import (
	"sync"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

type OutModule struct {
	mu          sync.Mutex
	endpoint    string
	timeout     time.Duration
	compression int
	facility    string
	sink        *lumberjack.SyncClient // nil until (re)connected
}
