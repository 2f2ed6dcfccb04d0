// Package download runs audio downloads for catalog entries.
//
// # Orchestrator
//
// The Orchestrator turns a result index into a finished MP3 file:
//
//  1. Resolve the entry and the target directory (synchronously)
//  2. Run yt-dlp in the target directory
//  3. Locate the produced file from the tool output
//  4. Repair and normalize the ID3 tag, embed lyrics
//  5. Append the file to a playlist (optional)
//  6. Record the job in the history store (optional)
//
// # Basic Usage
//
//	orch := download.NewOrchestrator(settings, session,
//	    download.WithLogger(logger),
//	    download.WithHistory(store))
//
//	if _, err := orch.Start(0, "/music"); err != nil {
//	    log.Fatal(err)
//	}
//
//	go func() {
//	    orch.Wait()
//	    orch.Close()
//	}()
//	for state := range orch.States() {
//	    fmt.Println(state)
//	}
//
// # States
//
// Every job emits exactly three TransferState values:
//
//	Running, Success, Completed(path)   file downloaded and found
//	Running, Success, Completed(None)   tool succeeded, file not found
//	Running, ErrDownload, Completed(None)
//
// A configurable settle delay separates the second and third state.
package download
