package data

// set at build time using -ldflags "-X ..."
var (
	Version   string
	GitCommit string
	GitBranch string
)
