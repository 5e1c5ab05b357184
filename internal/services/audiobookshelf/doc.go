// Package audiobookshelf triggers library rescans on an Audiobookshelf
// server after organized files land in the library tree.
package audiobookshelf
