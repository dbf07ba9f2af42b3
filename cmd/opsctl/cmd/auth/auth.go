package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd is the parent command for auth operations.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Commands for signing in, signing up, and inspecting login status.`,
}

func init() {
	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(signupCmd)
	AuthCmd.AddCommand(statusCmd)
	AuthCmd.AddCommand(verifyCmd)
}
