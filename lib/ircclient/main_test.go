package ircclient

import (
	"os"
	"testing"

	"github.com/Screwperman/pyirc/lib/logging"
)

func TestMain(m *testing.M) {
	logging.ConfigureTests()
	os.Exit(m.Run())
}
