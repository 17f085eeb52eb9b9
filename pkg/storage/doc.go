// Package storage lays out the crawl output and writes files atomically.
//
// The tree below the output root is:
//
//	data/images/photos/<id>.png
//	data/images/clubs/<club>.png
//	data/images/flags/<flag file>
//	data/players/<name>.json
//	data/index.json
//
// Every write goes to a temporary file in the destination directory and is
// renamed into place. Player records reference images through public paths
// rooted at "/data".
package storage
