package cmd

import (
	_ "publisher-keeper/cmd/backup"
	_ "publisher-keeper/cmd/provision"
	_ "publisher-keeper/cmd/root"
	_ "publisher-keeper/cmd/server"
	_ "publisher-keeper/cmd/status"
)
