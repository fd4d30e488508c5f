package build

// Info describes the binary being run. Values are set by the linker.
type Info struct {
	Version string
	Commit  string
	Date    string
}

type Key struct{}

// InfoKey stores *Info on a command context.
var InfoKey = Key{}
