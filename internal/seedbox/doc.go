// Package seedbox provides the remote-execution channel to the machine
// holding the completed downloads: SSH for commands, SFTP for files.
package seedbox
