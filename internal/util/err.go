package util

import "github.com/spf13/cobra"

// CheckError prints err and exits when it is not nil. It is only used during
// command tree construction, before any command runs.
func CheckError(err error) {
	cobra.CheckErr(err)
}
