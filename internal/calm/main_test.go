package calm

import (
	"testing"

	"go.uber.org/goleak"
)

// Cached locators keep a go-cache janitor alive for the life of the process.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}
