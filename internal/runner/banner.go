package runner

import (
	"github.com/projectdiscovery/gologger"

	"github.com/espressojuice/cloudmonitor/pkg/version"
)

var banner = `
        __                __                      _ __
  _____/ /___  __  ______/ /___ ___  ____  ____  (_) /_____  _____
 / ___/ / __ \/ / / / __  / __ ` + "`" + `__ \/ __ \/ __ \/ / __/ __ \/ ___/
/ /__/ / /_/ / /_/ / /_/ / / / / / / /_/ / / / / / /_/ /_/ / /
\___/_/\____/\__,_/\__,_/_/ /_/ /_/\____/_/ /_/_/\__/\____/_/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tcloudmonitor-scanner %s\n\n", version.GetVersion())
}
