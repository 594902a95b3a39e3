package runner

import "github.com/projectdiscovery/gologger"

var banner = `
                           __   _ __
   ___  ___ ________ ___  / /__(_) /_
  / _ \/ _ '/ __(_-</ -_)  '_/ / __/
 / .__/\_,_/_/ /___/\__/_/\_\/_/\__/
/_/
`

const version = "v0.1.0"

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\t%s\n\n", version)
}
