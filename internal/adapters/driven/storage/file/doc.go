// Package file stores credentials in a TOML file.
//
// The layout keeps a namespace table holding a single "credentials" entry:
//
//	[[WiFiCredentials.credentials]]
//	username = "alice"
//	password = "p|1"
//
// Entries are records, so any character is safe in a password. Older
// files that hold "username|password" strings instead of records are
// still readable; they are rewritten as records on the next save.
package file
