// Package cli implements the interactive socialhub command line client.
//
// The REPL reads one command per line and prompts for whatever the command
// needs. Passwords are read without echo. The session survives restarts
// because the client keeps its tokens in the local state database.
//
//	Anyone:
//	  register, login, google-login [code], verify-email [token],
//	  forgot-password, verify-forgot-password [token],
//	  reset-password [token], profile [username], help, exit
//
//	Logged in:
//	  me, update-me, change-password, resend-verify,
//	  follow [user_id], unfollow [user_id], logout
package cli
