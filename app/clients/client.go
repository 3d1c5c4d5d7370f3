package clients

import (
	"github.com/lalomorales22/ditto/app/runtime"
)

// Interface is an outbound connector notified about build-run lifecycle.
type Interface interface {
	Subscribe(*runtime.Runtime)
}

type Client struct {
	runtime *runtime.Runtime
}
