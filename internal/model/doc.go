// Package model defines the core data structures shared by the catalog,
// download and presentation layers of tubeaudio.
//
// # Entry
//
// Entry represents one item of the remote video catalog:
//
//	e := model.NewEntry("dQw4w9WgXcQ", "Song Title", 213)
//	fmt.Println(e.URL())            // URL handed to the download tool
//	fmt.Println(e.FormatDuration()) // "3:33"
//
// Entries are plain values. A catalog session owns the current result set
// and replaces it wholesale on every successful query.
package model
