// Package qbittorrent wraps the autobrr/go-qbittorrent library with the
// small surface the request workflow needs: submitting download jobs under
// the bot's category and listing those jobs with normalized states.
package qbittorrent
