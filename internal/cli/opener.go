package cli

import (
	"os/exec"
	"runtime"

	"github.com/matzehuels/webring/pkg/errors"
	"github.com/matzehuels/webring/pkg/interact"
)

// newOpener returns a Navigator that opens links in the system browser.
func newOpener() interact.Navigator {
	return interact.NavigatorFunc(openBrowser)
}

func openBrowser(link string) error {
	if err := errors.ValidateURL(link); err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", link)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		cmd = exec.Command("xdg-open", link)
	}
	return cmd.Start()
}
